package telegram

import (
	"crypto-relay-bot/internal/types"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestChatDirectory(t *testing.T) {
	d := NewChatDirectory()

	_, ok := d.FindChannel("general")
	assert.False(t, ok)

	d.Remember(-300, "General")
	d.Remember(-200, "random")
	d.Remember(-100, "")

	dest, ok := d.FindChannel("general")
	assert.True(t, ok)
	assert.Equal(t, types.Destination(-300), dest)

	d.Remember(-400, "#general")
	dest, ok = d.FindChannel("#general")
	assert.True(t, ok)
	assert.Equal(t, types.Destination(-400), dest)

	d.Remember(-400, "renamed")
	dest, _ = d.FindChannel("general")
	assert.Equal(t, types.Destination(-300), dest)
}

func TestToCommand(t *testing.T) {
	m := &tgbotapi.Message{
		Text: "!crypto bitcoin",
		Chat: &tgbotapi.Chat{ID: -100, Title: "general"},
		From: &tgbotapi.User{ID: 42},
	}

	cm := ToCommand(m)
	assert.Equal(t, types.Destination(-100), cm.Destination)
	assert.Equal(t, "general", cm.ChannelName)
	assert.Equal(t, int64(42), cm.AuthorID)
	assert.Equal(t, "!crypto bitcoin", cm.Content)

	m.From = nil
	m.Chat = &tgbotapi.Chat{ID: 42}
	cm = ToCommand(m)
	assert.Zero(t, cm.AuthorID)
	assert.Equal(t, "PrivateChat-42", cm.ChannelName)
}
