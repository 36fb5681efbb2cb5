package commands

import (
	"context"
	"crypto-relay-bot/lib/helpers"
	"crypto-relay-bot/lib/translation"
	"math"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// !setalert <crypto> <price>
func (r *Router) commandSetAlert(_ context.Context, m Message, args []string) []Reply {
	usage := text(translation.Translate("Invalid command. Use `!setalert <crypto> <target_price>`."))
	if len(args) != 2 {
		return usage
	}

	asset := args[0]
	target, err := strconv.ParseFloat(args[1], 64)
	if err != nil || math.IsNaN(target) || math.IsInf(target, 0) {
		log.Debugf("rejecting alert target %q: %v", args[1], err)
		return usage
	}

	a := r.Alerts.Set(asset, m.Destination, target)
	r.Metrics.SetAlertsPending(r.Alerts.Len())
	log.Infof("Alert %d set: chat %d, asset %s, target %f", a.ID, a.Destination, a.Asset, a.Target)

	return text(translation.Translate("Alert set for %s at ₹%s INR", asset, helpers.FormatAmount(target)))
}
