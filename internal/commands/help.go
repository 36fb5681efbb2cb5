package commands

import (
	"context"
	"crypto-relay-bot/lib/translation"
)

const helpText = `Crypto Bot Commands:
!crypto <name> - Get the current price of a cryptocurrency
!setalert <name> <price> - Set a price alert
!trend <name> - Get a graph of the price trend over the last 7 days
!info <name> - Get detailed information about a cryptocurrency
!help - Get this help message`

func (r *Router) commandHelp(context.Context, Message, []string) []Reply {
	return text(translation.Translate(helpText))
}
