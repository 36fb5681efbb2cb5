package commands

import (
	"context"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/lib/helpers"
	"crypto-relay-bot/lib/translation"
)

// !crypto <name1> <name2> ...
func (r *Router) commandPrice(ctx context.Context, _ Message, args []string) []Reply {
	if len(args) == 0 {
		return text(translation.Translate("Please specify one or more cryptocurrencies, e.g., `!crypto bitcoin ethereum`"))
	}

	replies := make([]Reply, 0, len(args))
	for _, asset := range args {
		p, err := r.Prices.GetPrice(ctx, asset)
		r.Metrics.ObserveLookup("price", err)
		if err != nil {
			price.LogLookup("price", asset, err)
			replies = append(replies, Reply{Text: translation.Translate("Could not find price for %s. Please try again.", asset)})
			continue
		}
		replies = append(replies, Reply{Text: translation.Translate("The current price of %s is ₹%s INR", asset, helpers.FormatAmount(p))})
	}
	return replies
}
