package line

import (
	"encoding/json"
	"fmt"
)

// Webhook is the envelope LINE delivers to the callback endpoint.
type Webhook struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one inbound webhook event. Only text message events carry the
// fields the bot acts on; everything else is passed through untouched.
type Event struct {
	Type       string  `json:"type"`
	ReplyToken string  `json:"replyToken"`
	Timestamp  int64   `json:"timestamp"`
	Source     Source  `json:"source"`
	Message    Message `json:"message"`
}

// Source identifies the sender of an event.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
}

// Message is the message payload of a message event.
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// IsTextMessage reports whether the event is an inbound text message.
func (e Event) IsTextMessage() bool {
	return e.Type == "message" && e.Message.Type == "text"
}

// ParseWebhook decodes a webhook request body.
func ParseWebhook(body []byte) (*Webhook, error) {
	var hook Webhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	return &hook, nil
}
