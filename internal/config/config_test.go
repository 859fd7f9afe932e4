package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// allConfigKeys lists every PORTFOLIO_ env var that Load() reads.
var allConfigKeys = []string{
	"PORTFOLIO_LISTEN_ADDR",
	"PORTFOLIO_DB_PATH",
	"PORTFOLIO_STORE",
	"PORTFOLIO_RTDB_URL",
	"PORTFOLIO_AUTH",
	"PORTFOLIO_FIREBASE_API_KEY",
	"PORTFOLIO_OPERATOR_EMAIL",
	"PORTFOLIO_OPERATOR_PASSWORD_HASH",
	"PORTFOLIO_SECRET_KEY",
	"PORTFOLIO_SESSION_TTL",
	"PORTFOLIO_WHATSAPP_NUMBER",
	"PORTFOLIO_UNKNOWN_CATEGORY",
	"PORTFOLIO_COOKIE_SECURE",
}

// isolateConfigEnv saves and unsets all PORTFOLIO_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

// withOperator sets the minimum env for the default local auth provider.
func withOperator(t *testing.T) {
	t.Helper()
	isolateConfigEnv(t)
	t.Setenv("PORTFOLIO_OPERATOR_EMAIL", "ops@example.com")
	t.Setenv("PORTFOLIO_OPERATOR_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuu")
}

func TestLoad_Defaults(t *testing.T) {
	withOperator(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "portfolio.db", cfg.DBPath)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, AuthLocal, cfg.Auth)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, DefaultWhatsAppNumber, cfg.WhatsAppNumber)
	assert.Equal(t, model.CategoryPolicyReject, cfg.CategoryPolicy)
	assert.False(t, cfg.CookieSecure)
	assert.Nil(t, cfg.SecretKey)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuu", cfg.OperatorPasswordHash)
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PORTFOLIO_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("PORTFOLIO_DB_PATH", "/tmp/test.db")
	t.Setenv("PORTFOLIO_STORE", "RTDB")
	t.Setenv("PORTFOLIO_RTDB_URL", "https://example.firebaseio.com")
	t.Setenv("PORTFOLIO_AUTH", "firebase")
	t.Setenv("PORTFOLIO_FIREBASE_API_KEY", "key-123")
	t.Setenv("PORTFOLIO_SESSION_TTL", "30m")
	t.Setenv("PORTFOLIO_WHATSAPP_NUMBER", "+1 555 0100")
	t.Setenv("PORTFOLIO_UNKNOWN_CATEGORY", "other")
	t.Setenv("PORTFOLIO_COOKIE_SECURE", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, StoreRTDB, cfg.Store)
	assert.Equal(t, "https://example.firebaseio.com", cfg.RTDBURL)
	assert.Equal(t, AuthFirebase, cfg.Auth)
	assert.Equal(t, "key-123", cfg.FirebaseAPIKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "+1 555 0100", cfg.WhatsAppNumber)
	assert.Equal(t, model.CategoryPolicyOther, cfg.CategoryPolicy)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown store",
			env:     map[string]string{"PORTFOLIO_STORE": "postgres"},
			wantErr: "PORTFOLIO_STORE",
		},
		{
			name:    "rtdb without url",
			env:     map[string]string{"PORTFOLIO_STORE": "rtdb"},
			wantErr: "PORTFOLIO_RTDB_URL",
		},
		{
			name:    "unknown auth",
			env:     map[string]string{"PORTFOLIO_AUTH": "ldap"},
			wantErr: "PORTFOLIO_AUTH",
		},
		{
			name:    "firebase without api key",
			env:     map[string]string{"PORTFOLIO_AUTH": "firebase"},
			wantErr: "PORTFOLIO_FIREBASE_API_KEY",
		},
		{
			name:    "local without operator",
			env:     map[string]string{"PORTFOLIO_OPERATOR_EMAIL": ""},
			wantErr: "PORTFOLIO_OPERATOR_EMAIL",
		},
		{
			name:    "bad session ttl",
			env:     map[string]string{"PORTFOLIO_SESSION_TTL": "soon"},
			wantErr: "PORTFOLIO_SESSION_TTL",
		},
		{
			name:    "negative session ttl",
			env:     map[string]string{"PORTFOLIO_SESSION_TTL": "-1h"},
			wantErr: "PORTFOLIO_SESSION_TTL",
		},
		{
			name:    "unknown category policy",
			env:     map[string]string{"PORTFOLIO_UNKNOWN_CATEGORY": "drop"},
			wantErr: "PORTFOLIO_UNKNOWN_CATEGORY",
		},
		{
			name:    "bad cookie secure",
			env:     map[string]string{"PORTFOLIO_COOKIE_SECURE": "maybe"},
			wantErr: "PORTFOLIO_COOKIE_SECURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withOperator(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	withOperator(t)
	// 64 hex chars = 32 bytes
	t.Setenv("PORTFOLIO_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_SecretKey_TooShort(t *testing.T) {
	withOperator(t)
	t.Setenv("PORTFOLIO_SECRET_KEY", "deadbeef")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORTFOLIO_SECRET_KEY")
}

func TestLoad_SecretKey_NotHex(t *testing.T) {
	withOperator(t)
	// 64 chars but not valid hex
	t.Setenv("PORTFOLIO_SECRET_KEY", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORTFOLIO_SECRET_KEY")
}
