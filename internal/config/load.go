package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvLookup resolves an environment variable, mirroring os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// DefaultEnvLookup reads from the process environment.
func DefaultEnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

type loadOptions struct {
	envLookup EnvLookup
	readFile  func(string) ([]byte, error)
}

// Option customizes Load, mainly to inject lookups in tests.
type Option func(*loadOptions)

// WithEnvLookup overrides the environment source.
func WithEnvLookup(lookup EnvLookup) Option {
	return func(o *loadOptions) { o.envLookup = lookup }
}

// WithFileReader overrides how the config file is read.
func WithFileReader(read func(string) ([]byte, error)) Option {
	return func(o *loadOptions) { o.readFile = read }
}

// Load builds a Config from an optional yaml file at path, with environment
// variables taking precedence over file values. A missing file is not an
// error; a malformed one is.
func Load(path string, opts ...Option) (*Config, error) {
	options := loadOptions{
		envLookup: DefaultEnvLookup,
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Amazon: AmazonConfig{
			BaseURL:      "https://www.amazon.co.jp",
			DelaySeconds: 1.0,
		},
		Sheets: SheetsConfig{
			WorksheetName: "products",
		},
		Gmail: GmailConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
	}

	if path != "" {
		data, err := options.readFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// optional
		default:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	applyEnv(cfg, options.envLookup)
	return cfg, nil
}

func applyEnv(cfg *Config, lookup EnvLookup) {
	setString := func(dst *string, key string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = value
		}
	}

	setString(&cfg.LogLevel, "BENRI_LOG_LEVEL")

	setString(&cfg.Line.ChannelAccessToken, "LINE_CHANNEL_ACCESS_TOKEN")
	setString(&cfg.Line.ChannelSecret, "LINE_CHANNEL_SECRET")
	setString(&cfg.Line.UserID, "LINE_USER_ID")

	setString(&cfg.Slack.BotToken, "SLACK_BOT_TOKEN")
	setString(&cfg.Slack.DefaultChannel, "SLACK_DEFAULT_CHANNEL")

	setString(&cfg.YouTube.APIKey, "YOUTUBE_API_KEY")

	setString(&cfg.Sheets.ServiceAccountFile, "GOOGLE_SERVICE_ACCOUNT_FILE")
	setString(&cfg.Sheets.SpreadsheetID, "GOOGLE_SPREADSHEET_ID")
	setString(&cfg.Sheets.WorksheetName, "GOOGLE_WORKSHEET_NAME")

	setString(&cfg.Gmail.CredentialsFile, "GMAIL_CREDENTIALS_FILE")
	setString(&cfg.Gmail.TokenFile, "GMAIL_TOKEN_FILE")

	setString(&cfg.Zoom.AccountID, "ZOOM_ACCOUNT_ID")
	setString(&cfg.Zoom.ClientID, "ZOOM_CLIENT_ID")
	setString(&cfg.Zoom.ClientSecret, "ZOOM_CLIENT_SECRET")

	if value, ok := lookup("PORT"); ok {
		if port, err := strconv.Atoi(value); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	setString(&cfg.Server.Host, "BENRI_HOST")
}
