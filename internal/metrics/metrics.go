package metrics

import (
	"crypto-relay-bot/internal/price"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "crypto_relay"
	subsystem = "telegram_bot"
)

type BotMetrics struct {
	CommandsProcessed  prometheus.Counter
	MessagesHandled    prometheus.Counter
	ChannelsCount      prometheus.Gauge
	ChannelNames       *prometheus.CounterVec
	MessagesPerChannel *prometheus.CounterVec
	PriceLookups       *prometheus.CounterVec
	AlertsFired        prometheus.Counter
	AlertsPending      prometheus.Gauge
	ChannelsSet        map[int64]string
	Mutex              sync.Mutex
}

// NewBotMetrics creates the collectors and registers them with reg.
func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
		ChannelsCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "channels_count",
			Help:      "The current number of unique channels the bot is operating in",
		}),
		ChannelNames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "channel_names",
				Help:      "Tracks channels the bot has interacted with",
			},
			[]string{"chat_id", "chat_name"},
		),
		MessagesPerChannel: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "messages_per_channel",
				Help:      "The total number of messages handled per channel",
			},
			[]string{"chat_id", "chat_name"},
		),
		PriceLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "price_lookups_total",
				Help:      "Pricing service lookups by operation and outcome",
			},
			[]string{"operation", "result"},
		),
		AlertsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "alerts_fired",
			Help:      "The total number of price alerts delivered",
		}),
		AlertsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "alerts_pending",
			Help:      "Alerts waiting for their target price",
		}),
		ChannelsSet: make(map[int64]string),
	}

	reg.MustRegister(
		m.CommandsProcessed,
		m.MessagesHandled,
		m.ChannelsCount,
		m.ChannelNames,
		m.MessagesPerChannel,
		m.PriceLookups,
		m.AlertsFired,
		m.AlertsPending,
	)

	return m
}

// The observers below accept a nil receiver so components can run without metrics.

func (m *BotMetrics) ObserveLookup(op string, err error) {
	if m == nil {
		return
	}
	m.PriceLookups.WithLabelValues(op, price.Outcome(err)).Inc()
}

func (m *BotMetrics) ObserveAlertFired() {
	if m == nil {
		return
	}
	m.AlertsFired.Inc()
}

func (m *BotMetrics) SetAlertsPending(n int) {
	if m == nil {
		return
	}
	m.AlertsPending.Set(float64(n))
}

func (m *BotMetrics) ObserveCommand() {
	if m == nil {
		return
	}
	m.CommandsProcessed.Inc()
}

// ObserveMessage counts a message from chatID and remembers the chat.
func (m *BotMetrics) ObserveMessage(chatID int64, chatName string) {
	if m == nil {
		return
	}
	m.MessagesHandled.Inc()

	m.Mutex.Lock()
	if _, exists := m.ChannelsSet[chatID]; !exists {
		m.ChannelsSet[chatID] = chatName
		m.ChannelsCount.Set(float64(len(m.ChannelsSet)))
		m.ChannelNames.WithLabelValues(fmt.Sprintf("%d", chatID), chatName).Inc()
	}
	m.Mutex.Unlock()

	m.MessagesPerChannel.WithLabelValues(fmt.Sprintf("%d", chatID), chatName).Inc()
}
