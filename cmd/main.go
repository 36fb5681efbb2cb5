package main

import (
	"context"
	"crypto-relay-bot/config"
	"crypto-relay-bot/internal/alert"
	"crypto-relay-bot/internal/chart"
	"crypto-relay-bot/internal/commands"
	"crypto-relay-bot/internal/database"
	"crypto-relay-bot/internal/metrics"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/internal/summary"
	"crypto-relay-bot/internal/telegram"
	"crypto-relay-bot/lib/translation"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func init() {
	config.InitConfig()
	setupLogging()
}

func main() {
	translation.Configure("locales", config.GetString("lang"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	botMetrics := metrics.NewBotMetrics(prometheus.DefaultRegisterer)

	var store *database.Store
	if path := config.GetString("metrics_db_path"); path != "" {
		var err error
		if store, err = database.Open(path); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		if err := botMetrics.Restore(store); err != nil {
			log.Errorf("Failed to load metrics: %v", err)
		}
		go persistMetrics(ctx, botMetrics, store)
	}

	prices := price.NewClient(price.ClientConfig{
		BaseURL:  config.GetString("api_base_url"),
		Currency: config.GetString("quote_currency"),
		APIKey:   config.GetString("api_key"),
		Timeout:  config.GetDuration("http_timeout"),
	})

	renderer, err := chart.NewRenderer(config.GetString("chart_dir"))
	if err != nil {
		log.Fatalf("Failed to create chart renderer: %v", err)
	}

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          config.GetString("telegram_bot_token"),
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	registry := alert.NewRegistry()

	monitor := &alert.Monitor{
		Registry: registry,
		Prices:   prices,
		Notifier: bot,
		Metrics:  botMetrics,
		Interval: config.GetInterval("alert_interval", alert.DefaultInterval),
	}
	go monitor.Run(ctx)

	daily := &summary.Job{
		Channels: bot.Chats(),
		Prices:   prices,
		Sender:   bot,
		Metrics:  botMetrics,
		Channel:  config.GetString("summary_channel"),
		Assets:   config.GetList("summary_assets"),
		Interval: config.GetInterval("summary_interval", summary.DefaultInterval),
	}
	go daily.Run(ctx)

	router := &commands.Router{
		SelfID:  bot.SelfID(),
		Prices:  prices,
		Alerts:  registry,
		Charts:  renderer,
		Metrics: botMetrics,
	}

	go func() {
		if err := metrics.Serve(ctx, config.GetInt("metrics_port"), prometheus.DefaultGatherer); err != nil {
			log.Fatalf("Failed to start metrics and health server: %v", err)
		}
	}()

	updates := bot.GetUpdatesChannel()
	go func() {
		<-ctx.Done()
		bot.StopUpdates()
	}()

	handleUpdates(ctx, bot, router, botMetrics, updates)

	if store != nil {
		if err := botMetrics.Persist(store); err != nil {
			log.Errorf("Failed to save metrics: %v", err)
		}
	}
	log.Info("Shutting down...")
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

func handleUpdates(ctx context.Context, bot *telegram.Bot, router *commands.Router, m *metrics.BotMetrics, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.MyChatMember != nil {
			bot.Chats().Remember(update.MyChatMember.Chat.ID, update.MyChatMember.Chat.Title)
			continue
		}

		msg := update.Message
		if msg == nil {
			msg = update.ChannelPost
		}
		if msg == nil || msg.Chat == nil {
			log.Debug("Received non-message update")
			continue
		}

		bot.Chats().Remember(msg.Chat.ID, msg.Chat.Title)

		if !commands.IsCommand(msg.Text) {
			continue
		}

		m.ObserveMessage(msg.Chat.ID, telegram.ChatName(msg.Chat))
		handleCommand(ctx, bot, router, m, msg)
	}
}

func handleCommand(ctx context.Context, bot *telegram.Bot, router *commands.Router, m *metrics.BotMetrics, msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, debug.Stack())
		}
	}()

	replies := router.Handle(ctx, telegram.ToCommand(msg))
	if len(replies) == 0 {
		return
	}

	if err := bot.SendReplies(msg.Chat.ID, msg.MessageID, replies); err != nil {
		log.Errorf("Failed to send message: %v", err)
		return
	}
	m.ObserveCommand()
}

func persistMetrics(ctx context.Context, m *metrics.BotMetrics, store *database.Store) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Persist(store); err != nil {
				log.Errorf("Failed to save metrics: %v", err)
			}
		}
	}
}
