package slack

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Channel is a conversation as returned by conversations.list.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsMember bool   `json:"is_member"`
}

// Message is a single entry from conversations.history.
type Message struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	UserID  string `json:"user"`
	Text    string `json:"text"`
	TS      string `json:"ts"`
}

// Time converts the Slack ts field ("1700000000.000100") to a time.Time.
func (m Message) Time() time.Time {
	sec, _, _ := strings.Cut(m.TS, ".")
	n, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0)
}

// ResolveChannel maps a #name or bare name to a channel ID. IDs
// (C..., G..., D...) pass through untouched.
func (c *Client) ResolveChannel(ctx context.Context, channel string) (string, error) {
	name := strings.TrimPrefix(channel, "#")
	if name != channel || !looksLikeChannelID(channel) {
		return c.lookupChannelID(ctx, name)
	}
	return channel, nil
}

func looksLikeChannelID(s string) bool {
	if len(s) < 9 {
		return false
	}
	switch s[0] {
	case 'C', 'G', 'D':
	default:
		return false
	}
	for _, r := range s[1:] {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func (c *Client) lookupChannelID(ctx context.Context, name string) (string, error) {
	cursor := ""
	for {
		params := url.Values{}
		params.Set("types", "public_channel,private_channel")
		params.Set("limit", "200")
		if cursor != "" {
			params.Set("cursor", cursor)
		}
		var out struct {
			Channels         []Channel `json:"channels"`
			ResponseMetadata struct {
				NextCursor string `json:"next_cursor"`
			} `json:"response_metadata"`
		}
		if err := c.call(ctx, "conversations.list", params, &out); err != nil {
			return "", err
		}
		for _, ch := range out.Channels {
			if ch.Name == name {
				return ch.ID, nil
			}
		}
		cursor = out.ResponseMetadata.NextCursor
		if cursor == "" {
			return "", fmt.Errorf("channel %q not found", name)
		}
	}
}

// History returns channel messages newer than now-window, oldest first.
// Bot messages and deletion tombstones are skipped.
func (c *Client) History(ctx context.Context, channelID string, window time.Duration, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}
	oldest := time.Now().Add(-window)
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("oldest", fmt.Sprintf("%d.000000", oldest.Unix()))
	params.Set("limit", strconv.Itoa(limit))

	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := c.call(ctx, "conversations.history", params, &out); err != nil {
		return nil, err
	}

	kept := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		if m.Type != "message" {
			continue
		}
		switch m.Subtype {
		case "bot_message", "message_deleted":
			continue
		}
		kept = append(kept, m)
	}
	// conversations.history returns newest first.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept, nil
}

// UserName resolves a user ID to a display name. Results are cached;
// unknown or failing lookups fall back to the raw ID.
func (c *Client) UserName(ctx context.Context, userID string) string {
	if userID == "" {
		return "unknown"
	}
	if name, ok := c.userNames.Get(userID); ok {
		return name
	}
	params := url.Values{}
	params.Set("user", userID)
	var out struct {
		User struct {
			Name     string `json:"name"`
			RealName string `json:"real_name"`
			Profile  struct {
				DisplayName string `json:"display_name"`
			} `json:"profile"`
		} `json:"user"`
	}
	if err := c.call(ctx, "users.info", params, &out); err != nil {
		c.logger.Warn("users.info %s failed: %v", userID, err)
		return userID
	}
	name := out.User.Profile.DisplayName
	if name == "" {
		name = out.User.RealName
	}
	if name == "" {
		name = out.User.Name
	}
	if name == "" {
		name = userID
	}
	c.userNames.Add(userID, name)
	return name
}
