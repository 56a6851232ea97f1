package slackline

import (
	"fmt"
	"strings"

	"benri/internal/slack"
)

const (
	// DefaultMaxLength caps the formatted summary before elision.
	DefaultMaxLength = 1000

	emptyNotice  = "メッセージがありません。"
	elidedNotice = "\n\n...（要約が長すぎるため一部を省略）"
)

// Summarize formats a chronological message slice into a digest. Short
// histories (5 messages or fewer) are listed in full; longer ones show
// the first and last three with an elision line in between. The result
// is capped at maxLength runes.
func Summarize(messages []slack.Message, names func(userID string) string, maxLength int) string {
	if len(messages) == 0 {
		return emptyNotice
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if names == nil {
		names = func(id string) string { return id }
	}

	users := make(map[string]struct{})
	for _, m := range messages {
		users[m.UserID] = struct{}{}
	}

	var b strings.Builder
	b.WriteString("📬 Slackメッセージ要約\n\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "📊 総メッセージ数: %d件\n", len(messages))
	fmt.Fprintf(&b, "👥 参加者数: %d名\n", len(users))
	first := messages[0].Time()
	last := messages[len(messages)-1].Time()
	fmt.Fprintf(&b, "⏰ 期間: %s ～ %s\n", first.Format("01/02 15:04"), last.Format("01/02 15:04"))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	if len(messages) <= 5 {
		b.WriteString("【メッセージ内容】\n")
		for _, m := range messages {
			b.WriteString(formatLine(m, names, 150) + "\n")
		}
	} else {
		b.WriteString("【最初のメッセージ（3件）】\n")
		for _, m := range messages[:3] {
			b.WriteString(formatLine(m, names, 120) + "\n")
		}
		fmt.Fprintf(&b, "\n... 他 %d件のメッセージ ...\n\n", len(messages)-6)
		b.WriteString("【最新のメッセージ（3件）】\n")
		for _, m := range messages[len(messages)-3:] {
			b.WriteString(formatLine(m, names, 120) + "\n")
		}
	}

	summary := strings.TrimRight(b.String(), "\n")
	if runes := []rune(summary); len(runes) > maxLength {
		summary = string(runes[:maxLength]) + elidedNotice
	}
	return summary
}

// SimpleSummary lists every message without digesting, one block per
// message, truncated at 200 runes each.
func SimpleSummary(messages []slack.Message, names func(userID string) string) string {
	if len(messages) == 0 {
		return emptyNotice
	}
	if names == nil {
		names = func(id string) string { return id }
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📬 Slackメッセージ通知 (%d件)\n\n", len(messages))
	b.WriteString(strings.Repeat("=", 30) + "\n\n")
	for _, m := range messages {
		fmt.Fprintf(&b, "[%s] %s\n%s\n\n",
			m.Time().Format("01/02 15:04"), names(m.UserID), truncate(m.Text, 200))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatLine(m slack.Message, names func(string) string, limit int) string {
	text := strings.TrimSpace(strings.ReplaceAll(m.Text, "\n", " "))
	return fmt.Sprintf("• [%s] %s: %s",
		m.Time().Format("01/02 15:04"), names(m.UserID), truncate(text, limit))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
