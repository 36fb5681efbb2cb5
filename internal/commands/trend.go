package commands

import (
	"context"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/lib/helpers"
	"crypto-relay-bot/lib/translation"

	log "github.com/sirupsen/logrus"
)

// !trend <crypto>
func (r *Router) commandTrend(ctx context.Context, _ Message, args []string) []Reply {
	if len(args) == 0 {
		return text(translation.Translate("Please specify a cryptocurrency, e.g., `!trend bitcoin`"))
	}

	asset := args[0]
	failed := text(translation.Translate("Could not generate trend for %s.", asset))

	series, err := r.Prices.GetTrendSeries(ctx, asset)
	if err == nil && len(series) == 0 {
		err = price.ErrEmptySeries
	}
	r.Metrics.ObserveLookup("trend", err)
	if err != nil {
		price.LogLookup("trend", asset, err)
		return failed
	}

	path, err := r.Charts.Render(asset, series)
	if err != nil {
		log.Errorf("error rendering chart for %s: %v", asset, err)
		return failed
	}

	caption := helpers.Capitalize(asset)
	if pct, err := price.ChangePercent(series); err == nil {
		caption = translation.Translate("%s 7d change: %s", caption, helpers.FormatPercent(pct))
	} else {
		log.Debugf("no weekly change for %s: %v", asset, err)
	}
	return []Reply{{Text: caption, FilePath: path}}
}
