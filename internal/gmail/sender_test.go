package gmail

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRawMessageRoundTrips(t *testing.T) {
	raw, err := BuildRawMessage("someone@example.com", "テスト送信", "これはテスト本文です。")
	require.NoError(t, err)

	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(raw)
	require.NoError(t, err)
	msg := string(decoded)

	assert.Contains(t, msg, "To: someone@example.com\r\n")
	assert.Contains(t, msg, "Subject: ")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"utf-8\"\r\n")

	headerEnd := strings.Index(msg, "\r\n\r\n")
	require.Greater(t, headerEnd, 0)
	body, err := base64.StdEncoding.DecodeString(msg[headerEnd+4:])
	require.NoError(t, err)
	assert.Equal(t, "これはテスト本文です。", string(body))
}

func TestBuildRawMessageRequiresRecipient(t *testing.T) {
	_, err := BuildRawMessage("  ", "subject", "body")
	assert.Error(t, err)
}

func TestLoadOAuthConfigInstalledClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"installed": {
			"client_id": "abc.apps.googleusercontent.com",
			"client_secret": "shh",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token"
		}
	}`), 0o600))

	config, err := loadOAuthConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "abc.apps.googleusercontent.com", config.ClientID)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/gmail.send"}, config.Scopes)
}

func TestLoadOAuthConfigMissingClient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	_, err := loadOAuthConfig(path)
	assert.ErrorContains(t, err, "no installed or web client")
}

func TestLoadTokenMissingFile(t *testing.T) {
	_, err := loadToken(filepath.Join(t.TempDir(), "token.json"))
	assert.ErrorContains(t, err, "consent flow")
}
