package telegram

import (
	"crypto-relay-bot/internal/types"
	"strings"
)

func NewChatDirectory() *ChatDirectory {
	return &ChatDirectory{names: make(map[int64]string)}
}

// Remember records the title of chatID, replacing an older one.
func (d *ChatDirectory) Remember(chatID int64, title string) {
	if title == "" {
		return
	}
	d.mu.Lock()
	d.names[chatID] = title
	d.mu.Unlock()
}

// FindChannel returns a chat whose title equals name, ignoring case and a leading '#'.
// With several matches the lowest chat id wins so the choice is stable.
func (d *ChatDirectory) FindChannel(name string) (types.Destination, bool) {
	name = strings.TrimPrefix(name, "#")

	d.mu.RLock()
	defer d.mu.RUnlock()

	var (
		found bool
		best  int64
	)
	for id, title := range d.names {
		if !strings.EqualFold(strings.TrimPrefix(title, "#"), name) {
			continue
		}
		if !found || id < best {
			best, found = id, true
		}
	}
	return types.Destination(best), found
}
