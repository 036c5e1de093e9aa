package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers.
const (
	StorageMemory    = "memory"
	StorageFile      = "file"
	StorageFirestore = "firestore"
)

const defaultJWTSecret = "dev-secret-key"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Firebase  FirebaseConfig
	Sync      SyncConfig
	Gemini    GeminiConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port               string
	Host               string
	Environment        string
	PublicURL          string
	EnableRegistration bool
	ShutdownTimeout    time.Duration
}

type JWTConfig struct {
	Secret                 string
	Expiration             time.Duration
	RefreshTokenExpiration time.Duration
}

// StorageConfig selects the db.KV backend.
type StorageConfig struct {
	Driver   string
	FilePath string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
}

// SyncConfig points at the remote namespace service.
type SyncConfig struct {
	BaseURL   string
	Timeout   time.Duration
	DefaultID string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() *Config {
	port := getEnv("PORT", "8080")
	return &Config{
		Server: ServerConfig{
			Port:               port,
			Host:               getEnv("HOST", "0.0.0.0"),
			Environment:        getEnv("ENVIRONMENT", "development"),
			PublicURL:          getEnv("PUBLIC_URL", "http://localhost:"+port+"/"),
			EnableRegistration: parseBool(getEnv("ENABLE_REGISTRATION", "false"), false),
			ShutdownTimeout:    parseDuration(getEnv("SHUTDOWN_TIMEOUT", "30s"), 30*time.Second),
		},
		JWT: JWTConfig{
			Secret:                 getEnv("JWT_SECRET", defaultJWTSecret),
			Expiration:             parseDuration(getEnv("JWT_EXPIRATION", "30m"), 30*time.Minute),
			RefreshTokenExpiration: parseDuration(getEnv("REFRESH_TOKEN_EXPIRATION", "7d"), 7*24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
			FilePath: getEnv("STORAGE_FILE", "./data/fleetcheck.json"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./serviceAccountKey.json"),
		},
		Sync: SyncConfig{
			BaseURL:   getEnv("SYNC_BASE_URL", "http://localhost:"+port+"/kv"),
			Timeout:   parseDuration(getEnv("SYNC_TIMEOUT", "10s"), 10*time.Second),
			DefaultID: getEnv("SYNC_ID", ""),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: parseDuration(getEnv("GEMINI_TIMEOUT", "20s"), 20*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		RateLimit: RateLimitConfig{
			Requests: parseInt(getEnv("RATE_LIMIT_REQUESTS", "100"), 100),
			Window:   parseDuration(getEnv("RATE_LIMIT_WINDOW", "60"), 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return defaultValue
}

func parseBool(s string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultValue
}

// parseDuration accepts Go durations, a day count like "7d", or bare seconds.
func parseDuration(s string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if i, err := strconv.Atoi(days); err == nil {
			return time.Duration(i) * 24 * time.Hour
		}
	}
	if i, err := strconv.Atoi(s); err == nil {
		return time.Duration(i) * time.Second
	}
	return defaultValue
}

func parseStringSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == defaultJWTSecret && c.IsProduction() {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFile:
		if c.Storage.FilePath == "" {
			errs = append(errs, errors.New("STORAGE_FILE must be set for the file driver"))
		}
	case StorageFirestore:
		if c.Firebase.ProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID must be set"))
		}
		if _, err := os.Stat(c.Firebase.CredentialsPath); os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("firebase credentials file not found: %s", c.Firebase.CredentialsPath))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	switch c.Logging.Format {
	case "json", "text", "cli":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.Logging.Format))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limit requests and window must be positive"))
	}
	return errors.Join(errs...)
}
