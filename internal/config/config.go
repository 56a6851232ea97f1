package config

import (
	"fmt"
	"strings"
)

// Config aggregates the per-tool sections of the toolkit.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Server   ServerConfig  `yaml:"server"`
	Line     LineConfig    `yaml:"line"`
	Slack    SlackConfig   `yaml:"slack"`
	YouTube  YouTubeConfig `yaml:"youtube"`
	Amazon   AmazonConfig  `yaml:"amazon"`
	Sheets   SheetsConfig  `yaml:"sheets"`
	Gmail    GmailConfig   `yaml:"gmail"`
	Zoom     ZoomConfig    `yaml:"zoom"`
}

// ServerConfig configures the reminder webhook server.
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	EnableCORS bool   `yaml:"enable_cors"`
	Debug      bool   `yaml:"debug"`
}

// LineConfig holds LINE Messaging API credentials.
type LineConfig struct {
	ChannelAccessToken string `yaml:"channel_access_token"`
	ChannelSecret      string `yaml:"channel_secret"`
	UserID             string `yaml:"user_id"`
}

// ValidatePush checks the fields needed for outbound push messages.
func (c LineConfig) ValidatePush() error {
	if strings.TrimSpace(c.ChannelAccessToken) == "" {
		return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is not set")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("LINE_USER_ID is not set")
	}
	return nil
}

// ValidateBot checks the fields needed to serve the reminder webhook.
func (c LineConfig) ValidateBot() error {
	if strings.TrimSpace(c.ChannelAccessToken) == "" {
		return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is not set")
	}
	if strings.TrimSpace(c.ChannelSecret) == "" {
		return fmt.Errorf("LINE_CHANNEL_SECRET is not set")
	}
	return nil
}

// SlackConfig holds the Slack bot token and optional default channel.
type SlackConfig struct {
	BotToken       string `yaml:"bot_token"`
	DefaultChannel string `yaml:"default_channel"`
}

func (c SlackConfig) Validate() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN is not set")
	}
	return nil
}

// YouTubeConfig holds the Data API key.
type YouTubeConfig struct {
	APIKey string `yaml:"api_key"`
}

func (c YouTubeConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is not set")
	}
	return nil
}

// AmazonConfig tunes the product scraper.
type AmazonConfig struct {
	BaseURL      string  `yaml:"base_url"`
	DelaySeconds float64 `yaml:"delay_seconds"`
}

// SheetsConfig points at the spreadsheet sync target.
type SheetsConfig struct {
	ServiceAccountFile string `yaml:"service_account_file"`
	SpreadsheetID      string `yaml:"spreadsheet_id"`
	WorksheetName      string `yaml:"worksheet_name"`
}

func (c SheetsConfig) Validate() error {
	if strings.TrimSpace(c.ServiceAccountFile) == "" {
		return fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_FILE is not set")
	}
	if strings.TrimSpace(c.SpreadsheetID) == "" {
		return fmt.Errorf("GOOGLE_SPREADSHEET_ID is not set")
	}
	return nil
}

// GmailConfig points at the OAuth credential and token caches.
type GmailConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

func (c GmailConfig) Validate() error {
	if strings.TrimSpace(c.CredentialsFile) == "" {
		return fmt.Errorf("GMAIL_CREDENTIALS_FILE is not set")
	}
	if strings.TrimSpace(c.TokenFile) == "" {
		return fmt.Errorf("GMAIL_TOKEN_FILE is not set")
	}
	return nil
}

// ZoomConfig holds server-to-server OAuth credentials.
type ZoomConfig struct {
	AccountID    string `yaml:"account_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

func (c ZoomConfig) Validate() error {
	if strings.TrimSpace(c.AccountID) == "" {
		return fmt.Errorf("ZOOM_ACCOUNT_ID is not set")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		return fmt.Errorf("ZOOM_CLIENT_ID is not set")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		return fmt.Errorf("ZOOM_CLIENT_SECRET is not set")
	}
	return nil
}
