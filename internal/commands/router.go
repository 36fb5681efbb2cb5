package commands

import (
	"context"
	"crypto-relay-bot/internal/alert"
	"crypto-relay-bot/internal/metrics"
	"crypto-relay-bot/internal/price"
	"crypto-relay-bot/internal/types"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	CommandCrypto   = "!crypto"
	CommandSetAlert = "!setalert"
	CommandInfo     = "!info"
	CommandTrend    = "!trend"
	CommandHelp     = "!help"
)

// Message is an incoming chat message.
type Message struct {
	Destination types.Destination
	ChannelName string
	AuthorID    int64
	Content     string
}

// Reply is sent back to the message's channel. When FilePath is set the file is attached
// and Text becomes its caption.
type Reply struct {
	Text     string
	FilePath string
}

type TrendRenderer interface {
	Render(asset string, series price.TrendSeries) (string, error)
}

// Router maps message prefixes to command handlers.
type Router struct {
	SelfID  int64
	Prices  price.Source
	Alerts  *alert.Registry
	Charts  TrendRenderer
	Metrics *metrics.BotMetrics
}

type handler func(r *Router, ctx context.Context, m Message, args []string) []Reply

// checked in order, the first matching prefix wins
var routes = []struct {
	prefix string
	handle handler
}{
	{CommandCrypto, (*Router).commandPrice},
	{CommandSetAlert, (*Router).commandSetAlert},
	{CommandInfo, (*Router).commandInfo},
	{CommandTrend, (*Router).commandTrend},
	{CommandHelp, (*Router).commandHelp},
}

// IsCommand reports whether content starts with a known command prefix.
func IsCommand(content string) bool {
	for _, route := range routes {
		if strings.HasPrefix(content, route.prefix) {
			return true
		}
	}
	return false
}

// Handle returns the replies for m, in the order they should be sent. Messages from the bot
// itself and unrecognised text yield no replies.
func (r *Router) Handle(ctx context.Context, m Message) []Reply {
	if m.AuthorID != 0 && m.AuthorID == r.SelfID {
		return nil
	}

	for _, route := range routes {
		if !strings.HasPrefix(m.Content, route.prefix) {
			continue
		}
		args := strings.Fields(m.Content)[1:]
		log.WithFields(log.Fields{
			"command": route.prefix,
			"args":    args,
			"chat_id": m.Destination,
		}).Debug("processing command")
		return route.handle(r, ctx, m, args)
	}
	return nil
}

func text(s string) []Reply {
	return []Reply{{Text: s}}
}
