package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"benri/internal/line"
	"benri/internal/reminder"
)

// helpReply is sent when no time expression could be parsed.
const helpReply = "例: 10時に宿題をやる / 15:30に散歩 のように送ってね。"

// handleCallback validates the webhook signature, then dispatches each text
// message event. The signature gate runs before anything else touches the
// payload; a failed check ends the request with a client error.
func (s *Server) handleCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(outcomeBadRequest).Inc()
		c.String(http.StatusBadRequest, "read body")
		return
	}

	signature := c.GetHeader("X-Line-Signature")
	if !line.ValidateSignature(s.channelSecret, body, signature) {
		s.metrics.WebhookEvents.WithLabelValues(outcomeRejected).Inc()
		s.logger.Warn("webhook signature validation failed")
		c.String(http.StatusBadRequest, "invalid signature")
		return
	}

	hook, err := line.ParseWebhook(body)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(outcomeBadRequest).Inc()
		c.String(http.StatusBadRequest, "malformed webhook")
		return
	}

	for _, event := range hook.Events {
		if !event.IsTextMessage() {
			s.metrics.WebhookEvents.WithLabelValues(outcomeIgnored).Inc()
			continue
		}
		s.handleTextMessage(c.Request.Context(), event)
	}
	c.String(http.StatusOK, "OK")
}

// handleTextMessage runs the parse → resolve → schedule pipeline for one
// inbound message and acknowledges the sender. The acknowledgment goes out
// as soon as the timer is registered, independent of when it fires.
func (s *Server) handleTextMessage(ctx context.Context, event line.Event) {
	text := strings.TrimSpace(event.Message.Text)

	match, ok := reminder.Extract(text)
	if !ok {
		s.metrics.WebhookEvents.WithLabelValues(outcomeHelp).Inc()
		s.reply(ctx, event.ReplyToken, helpReply)
		return
	}

	fireAt := reminder.Resolve(match.Hour, match.Minute, s.clock())
	fireText := fmt.Sprintf("%s になりました。「%s」の時間です。",
		fireAt.Format("15:04"), match.Task)

	replaced := s.registry.Schedule(reminder.New(event.Source.UserID, fireAt, fireText))
	s.metrics.WebhookEvents.WithLabelValues(outcomeScheduled).Inc()
	s.metrics.RemindersScheduled.Inc()
	if replaced {
		s.metrics.RemindersReplaced.Inc()
	}

	ack := fmt.Sprintf("了解！%s に「%s」をリマインドするね。",
		fireAt.Format("01/02 15:04"), match.Task)
	s.reply(ctx, event.ReplyToken, ack)
}

// reply sends a reply and logs failures. A failed acknowledgment never
// unwinds the schedule that already happened.
func (s *Server) reply(ctx context.Context, replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := s.messenger.Reply(ctx, replyToken, text); err != nil {
		s.logger.Error("webhook reply failed: %v", err)
	}
}
