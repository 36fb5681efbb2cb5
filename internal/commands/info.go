package commands

import (
	"context"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/lib/helpers"
	"crypto-relay-bot/lib/translation"
	"fmt"
)

// !info <crypto>
func (r *Router) commandInfo(ctx context.Context, _ Message, args []string) []Reply {
	if len(args) == 0 {
		return text(translation.Translate("Please specify a cryptocurrency, e.g., `!info bitcoin`"))
	}

	asset := args[0]
	snap, err := r.Prices.GetMarketSnapshot(ctx, asset)
	r.Metrics.ObserveLookup("info", err)
	if err != nil {
		price.LogLookup("info", asset, err)
		return text(translation.Translate("Cryptocurrency not found."))
	}
	return text(FormatSnapshot(snap))
}

func FormatSnapshot(s *price.MarketSnapshot) string {
	rank := "N/A"
	if s.Rank > 0 {
		rank = fmt.Sprintf("%d", s.Rank)
	}
	return translation.Translate(
		"Price: ₹%s\nMarket Cap: ₹%s\nVolume: ₹%s\nRank: %s",
		helpers.FormatPriceINR(s.Price),
		helpers.FormatCompact(s.MarketCap),
		helpers.FormatCompact(s.Volume),
		rank,
	)
}
