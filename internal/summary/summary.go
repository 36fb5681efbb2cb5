package summary

import (
	"context"
	"crypto-relay-bot/internal/metrics"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/internal/types"
	"crypto-relay-bot/lib/helpers"
	"crypto-relay-bot/lib/translation"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultInterval = 24 * time.Hour
	DefaultChannel  = "general"
)

var DefaultAssets = []string{"bitcoin", "ethereum", "dogecoin"}

// ChannelFinder locates a chat by its name.
type ChannelFinder interface {
	FindChannel(name string) (types.Destination, bool)
}

type PriceGetter interface {
	GetPrice(ctx context.Context, asset string) (float64, error)
}

type Sender interface {
	SendText(dest types.Destination, text string) error
}

// Job posts the prices of a fixed asset list to one channel once per Interval.
type Job struct {
	Channels ChannelFinder
	Prices   PriceGetter
	Sender   Sender
	Metrics  *metrics.BotMetrics
	Channel  string
	Assets   []string
	Interval time.Duration
}

// Run sends a summary right away and then every Interval until ctx is cancelled.
func (j *Job) Run(ctx context.Context) {
	interval := j.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("🚀 Daily summary scheduled every %s for channel %q.", interval, j.channel())
	for {
		if _, err := j.Send(ctx); err != nil {
			log.Errorf("❌ Failed to send daily summary: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Send posts one summary. It reports false without error when the channel is unknown.
func (j *Job) Send(ctx context.Context) (bool, error) {
	dest, ok := j.Channels.FindChannel(j.channel())
	if !ok {
		log.Debugf("summary channel %q not found, skipping", j.channel())
		return false, nil
	}

	if err := j.Sender.SendText(dest, j.Compose(ctx)); err != nil {
		return false, err
	}
	log.Infof("✅ Daily summary sent to chat %d", dest)
	return true, nil
}

// Compose builds the summary text, leaving out assets without a price.
func (j *Job) Compose(ctx context.Context) string {
	lines := lo.FilterMap(j.assets(), func(asset string, _ int) (string, bool) {
		p, err := j.Prices.GetPrice(ctx, asset)
		j.Metrics.ObserveLookup("summary", err)
		if err != nil {
			price.LogLookup("summary", asset, err)
			return "", false
		}
		return translation.Translate("%s: ₹%s INR", helpers.Capitalize(asset), helpers.FormatAmount(p)), true
	})

	var sb strings.Builder
	sb.WriteString(translation.Translate("📊 Daily Crypto Summary:"))
	sb.WriteString("\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (j *Job) channel() string {
	if j.Channel == "" {
		return DefaultChannel
	}
	return j.Channel
}

func (j *Job) assets() []string {
	if len(j.Assets) == 0 {
		return DefaultAssets
	}
	return j.Assets
}
