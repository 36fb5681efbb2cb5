package alert

import (
	"context"
	"crypto-relay-bot/internal/metrics"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/internal/types"
	"crypto-relay-bot/lib/helpers"
	"crypto-relay-bot/lib/translation"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultInterval = time.Minute

// Notifier delivers a text message to a chat.
type Notifier interface {
	SendText(dest types.Destination, text string) error
}

type PriceGetter interface {
	GetPrice(ctx context.Context, asset string) (float64, error)
}

// Monitor polls prices for all registered alerts and fires those whose target was reached.
type Monitor struct {
	Registry *Registry
	Prices   PriceGetter
	Notifier Notifier
	Metrics  *metrics.BotMetrics
	Interval time.Duration
}

// Run checks alerts every Interval until ctx is cancelled. The sleep starts after a cycle
// ends, so slow cycles push the schedule back.
func (m *Monitor) Run(ctx context.Context) {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log.Infof("🚀 Alert service started, checking every %s.", interval)

	for {
		m.safeCheck(ctx)

		select {
		case <-ctx.Done():
			log.Info("Alert service stopped.")
			return
		case <-time.After(interval):
		}
	}
}

func (m *Monitor) safeCheck(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("🔥 Panic recovered in alert checker: %v\nStack trace: %s", r, debug.Stack())
		}
	}()
	m.CheckAlerts(ctx)
}

// CheckAlerts runs one poll cycle and returns the number of alerts fired.
func (m *Monitor) CheckAlerts(ctx context.Context) int {
	alerts := m.Registry.Snapshot()
	log.Debugf("🔄 Checking %d alerts...", len(alerts))

	fired := 0
	for _, a := range alerts {
		if ctx.Err() != nil {
			break
		}

		current, err := m.Prices.GetPrice(ctx, a.Asset)
		m.Metrics.ObserveLookup("price", err)
		if err != nil {
			price.LogLookup("alert", a.Asset, err)
			continue
		}

		log.WithFields(log.Fields{
			"alert_id": a.ID,
			"asset":    a.Asset,
			"target":   a.Target,
			"current":  current,
		}).Debug("🔍 Checking price alert")

		if current < a.Target {
			continue
		}

		// the claim decides who fires; an alert overwritten meanwhile stays registered
		if !m.Registry.Claim(a) {
			log.Debugf("alert %d for %s changed during the cycle, skipping", a.ID, a.Asset)
			continue
		}

		if err := m.Notifier.SendText(a.Destination, FormatTriggered(a, current)); err != nil {
			log.Errorf("❌ Failed to send price alert notification: %v", err)
		} else {
			log.Infof("✅ Price alert notification sent to chat %d", a.Destination)
		}
		m.Metrics.ObserveAlertFired()
		fired++
	}

	m.Metrics.SetAlertsPending(m.Registry.Len())
	return fired
}

func FormatTriggered(a types.Alert, current float64) string {
	return translation.Translate(
		"🚨 %s has reached ₹%s! Current price: ₹%s INR",
		a.Asset,
		helpers.FormatAmount(a.Target),
		helpers.FormatAmount(current),
	)
}
