package types

import "time"

// Destination is an opaque reference to a chat channel; for Telegram it is the chat id.
type Destination int64

type Alert struct {
	ID          int64       `json:"id"`
	Asset       string      `json:"asset"`
	Destination Destination `json:"destination"`
	Target      float64     `json:"target"`
	CreatedAt   time.Time   `json:"created_at"`
}
