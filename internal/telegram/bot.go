package telegram

import (
	"crypto-relay-bot/internal/commands"
	"crypto-relay-bot/internal/types"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug
	log.Infof("Logged in as %s", bot.Self.UserName)

	return &Bot{
		Bot:    bot,
		Config: c,
		chats:  NewChatDirectory(),
	}, nil
}

// GetUpdatesChannel gets new updates updates
func (b *Bot) GetUpdatesChannel() tgbotapi.UpdatesChannel {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig)
}

// StopUpdates ends long polling and closes the updates channel.
func (b *Bot) StopUpdates() {
	b.Bot.StopReceivingUpdates()
}

func (b *Bot) SelfID() int64 {
	return b.Bot.Self.ID
}

func (b *Bot) Chats() *ChatDirectory {
	return b.chats
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message to chat %d", m.ChatID)
}

// SendText implements alert.Notifier and summary.Sender.
func (b *Bot) SendText(dest types.Destination, text string) error {
	return b.SendMessage(Message{ChatID: int64(dest), Text: text})
}

// SendFile uploads the file at path as a document with caption.
func (b *Bot) SendFile(chatID int64, replyTo int, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	doc.ReplyToMessageID = replyTo
	_, err := b.Bot.Send(doc)
	return errors.Wrapf(err, "could not send %s to chat %d", path, chatID)
}

// SendReplies delivers router replies in order, stopping at the first failure.
func (b *Bot) SendReplies(chatID int64, replyTo int, replies []commands.Reply) error {
	for _, r := range replies {
		var err error
		if r.FilePath != "" {
			err = b.SendFile(chatID, replyTo, r.FilePath, r.Text)
		} else {
			err = b.SendMessage(Message{ChatID: chatID, MessageID: replyTo, Text: r.Text})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ChatName is the chat title, or a synthetic name for private chats.
func ChatName(chat *tgbotapi.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return fmt.Sprintf("%s-%d", "PrivateChat", chat.ID)
}

// ToCommand converts a Telegram message to router input.
func ToCommand(m *tgbotapi.Message) commands.Message {
	cm := commands.Message{
		Destination: types.Destination(m.Chat.ID),
		ChannelName: ChatName(m.Chat),
		Content:     m.Text,
	}
	if m.From != nil {
		cm.AuthorID = m.From.ID
	}
	return cm
}
