package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"strings"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"benri/internal/logging"
)

// Sender sends mail as the authorized user via the Gmail API.
type Sender struct {
	service *gmailapi.Service
	logger  logging.Logger
}

// NewSender builds a Sender from an OAuth client file and a cached
// token file. The token must already exist; the interactive consent
// flow that mints it is a one-time setup step outside this process.
func NewSender(ctx context.Context, credentialsFile, tokenFile string, logger logging.Logger) (*Sender, error) {
	config, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}
	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}

	service, err := gmailapi.NewService(ctx,
		option.WithTokenSource(config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("build gmail service: %w", err)
	}
	return &Sender{service: service, logger: logging.OrNop(logger)}, nil
}

func loadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read OAuth client file %s: %w", credentialsFile, err)
	}
	var wrapper struct {
		Installed *clientSecret `json:"installed"`
		Web       *clientSecret `json:"web"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse OAuth client file %s: %w", credentialsFile, err)
	}
	secret := wrapper.Installed
	if secret == nil {
		secret = wrapper.Web
	}
	if secret == nil || secret.ClientID == "" {
		return nil, fmt.Errorf("OAuth client file %s has no installed or web client", credentialsFile)
	}
	return &oauth2.Config{
		ClientID:     secret.ClientID,
		ClientSecret: secret.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  secret.AuthURI,
			TokenURL: secret.TokenURI,
		},
		Scopes: []string{gmailapi.GmailSendScope},
	}, nil
}

type clientSecret struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AuthURI      string `json:"auth_uri"`
	TokenURI     string `json:"token_uri"`
}

func loadToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file %s (run the OAuth consent flow first): %w", tokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", tokenFile, err)
	}
	return &token, nil
}

// BuildRawMessage assembles an RFC 2822 text mail and encodes it the
// way the Gmail API expects raw messages.
func BuildRawMessage(to, subject, body string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", fmt.Errorf("recipient address is required")
	}

	var msg strings.Builder
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))

	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(msg.String())), nil
}

// Send mails a plain-text message and returns the Gmail message ID.
func (s *Sender) Send(ctx context.Context, to, subject, body string) (string, error) {
	raw, err := BuildRawMessage(to, subject, body)
	if err != nil {
		return "", err
	}

	sent, err := s.service.Users.Messages.Send("me", &gmailapi.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("send mail to %s: %w", to, err)
	}
	s.logger.Info("sent mail to %s, message id %s", to, sent.Id)
	return sent.Id, nil
}
