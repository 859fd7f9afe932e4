// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRTDB   = "rtdb"
)

// Auth providers.
const (
	AuthLocal    = "local"
	AuthFirebase = "firebase"
)

// DefaultWhatsAppNumber receives enquiries when PORTFOLIO_WHATSAPP_NUMBER is
// unset.
const DefaultWhatsAppNumber = "9618108329"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string

	Store   string
	RTDBURL string

	Auth                 string
	FirebaseAPIKey       string
	OperatorEmail        string
	OperatorPasswordHash string

	// SecretKey encrypts stored session tokens and signs the browser
	// cookie. Nil when PORTFOLIO_SECRET_KEY is unset.
	SecretKey    []byte
	SessionTTL   time.Duration
	CookieSecure bool

	WhatsAppNumber string
	CategoryPolicy model.CategoryPolicy
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: PORTFOLIO_LISTEN_ADDR (127.0.0.1:8080),
// PORTFOLIO_DB_PATH (portfolio.db), PORTFOLIO_STORE (sqlite),
// PORTFOLIO_AUTH (local), PORTFOLIO_SESSION_TTL (12h),
// PORTFOLIO_WHATSAPP_NUMBER, PORTFOLIO_UNKNOWN_CATEGORY (reject).
// PORTFOLIO_RTDB_URL is required for the rtdb store, PORTFOLIO_FIREBASE_API_KEY
// for firebase auth, and PORTFOLIO_OPERATOR_EMAIL plus
// PORTFOLIO_OPERATOR_PASSWORD_HASH for local auth.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     envOr("PORTFOLIO_LISTEN_ADDR", "127.0.0.1:8080"),
		DBPath:         envOr("PORTFOLIO_DB_PATH", "portfolio.db"),
		Store:          strings.ToLower(envOr("PORTFOLIO_STORE", StoreSQLite)),
		RTDBURL:        strings.TrimSpace(os.Getenv("PORTFOLIO_RTDB_URL")),
		Auth:           strings.ToLower(envOr("PORTFOLIO_AUTH", AuthLocal)),
		FirebaseAPIKey: strings.TrimSpace(os.Getenv("PORTFOLIO_FIREBASE_API_KEY")),
		OperatorEmail:  strings.TrimSpace(os.Getenv("PORTFOLIO_OPERATOR_EMAIL")),
		// bcrypt hashes contain '$', so the value is taken verbatim.
		OperatorPasswordHash: os.Getenv("PORTFOLIO_OPERATOR_PASSWORD_HASH"),
		SessionTTL:           12 * time.Hour,
		WhatsAppNumber:       envOr("PORTFOLIO_WHATSAPP_NUMBER", DefaultWhatsAppNumber),
		CategoryPolicy:       model.CategoryPolicyReject,
	}

	switch cfg.Store {
	case StoreSQLite:
	case StoreRTDB:
		if cfg.RTDBURL == "" {
			return nil, fmt.Errorf("PORTFOLIO_RTDB_URL is required when PORTFOLIO_STORE=%s", StoreRTDB)
		}
	default:
		return nil, fmt.Errorf("PORTFOLIO_STORE has invalid value %q (want %s or %s)", cfg.Store, StoreSQLite, StoreRTDB)
	}

	switch cfg.Auth {
	case AuthLocal:
		if cfg.OperatorEmail == "" || cfg.OperatorPasswordHash == "" {
			return nil, fmt.Errorf("PORTFOLIO_OPERATOR_EMAIL and PORTFOLIO_OPERATOR_PASSWORD_HASH are required when PORTFOLIO_AUTH=%s", AuthLocal)
		}
	case AuthFirebase:
		if cfg.FirebaseAPIKey == "" {
			return nil, fmt.Errorf("PORTFOLIO_FIREBASE_API_KEY is required when PORTFOLIO_AUTH=%s", AuthFirebase)
		}
	default:
		return nil, fmt.Errorf("PORTFOLIO_AUTH has invalid value %q (want %s or %s)", cfg.Auth, AuthLocal, AuthFirebase)
	}

	if v, ok := os.LookupEnv("PORTFOLIO_SESSION_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PORTFOLIO_SESSION_TTL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("PORTFOLIO_SESSION_TTL must be positive, got %s", parsed)
		}
		cfg.SessionTTL = parsed
	}

	if v, ok := os.LookupEnv("PORTFOLIO_UNKNOWN_CATEGORY"); ok {
		policy, valid := model.ParseCategoryPolicy(v)
		if !valid {
			return nil, fmt.Errorf("PORTFOLIO_UNKNOWN_CATEGORY has invalid value %q (want reject or other)", v)
		}
		cfg.CategoryPolicy = policy
	}

	if v, ok := os.LookupEnv("PORTFOLIO_COOKIE_SECURE"); ok && v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("PORTFOLIO_COOKIE_SECURE has invalid value %q: %w", v, err)
		}
		cfg.CookieSecure = secure
	}

	if v, ok := os.LookupEnv("PORTFOLIO_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("PORTFOLIO_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("PORTFOLIO_SECRET_KEY must be 32 bytes (64 hex chars), got %d bytes", len(key))
		}
		cfg.SecretKey = key
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
