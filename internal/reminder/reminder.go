package reminder

import "time"

// Reminder is a pending one-shot notification for a single recipient.
type Reminder struct {
	JobID       string
	RecipientID string
	FireAt      time.Time
	Text        string
}

// JobID derives the stable replacement key for a recipient. Scheduling a new
// reminder under the same key supersedes any pending one, so each recipient
// holds at most one outstanding reminder.
func JobID(recipientID string) string {
	return "reminder-" + recipientID
}

// New builds a Reminder for a recipient with its job id filled in.
func New(recipientID string, fireAt time.Time, text string) Reminder {
	return Reminder{
		JobID:       JobID(recipientID),
		RecipientID: recipientID,
		FireAt:      fireAt,
		Text:        text,
	}
}
