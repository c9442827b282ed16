package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the client.
type Config struct {
	AppName     string
	Environment string
	API         APIConfig
	Push        PushConfig
	Sync        SyncConfig
	Credential  CredentialConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type PushConfig struct {
	URL string
}

type SyncConfig struct {
	Debounce          time.Duration
	RefreshTimeout    time.Duration
	ReconcileInterval time.Duration
	MonitorInterval   time.Duration
}

type CredentialConfig struct {
	Path string
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the client can start in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskdesk"),
		Environment: getString("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:        getString("API_BASE_URL", "http://localhost:5000"),
			RequestTimeout: getDuration("API_REQUEST_TIMEOUT", 5*time.Second),
		},
		Push: PushConfig{
			URL: getString("PUSH_URL", "ws://localhost:5000/ws"),
		},
		Sync: SyncConfig{
			Debounce:          getDuration("SYNC_DEBOUNCE", 150*time.Millisecond),
			RefreshTimeout:    getDuration("SYNC_REFRESH_TIMEOUT", 10*time.Second),
			ReconcileInterval: getDuration("RECONCILE_INTERVAL", 60*time.Second),
			MonitorInterval:   getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
		Credential: CredentialConfig{
			Path: getString("CREDENTIAL_PATH", defaultCredentialPath()),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func defaultCredentialPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data/credential.db"
	}
	return filepath.Join(home, ".taskdesk", "credential.db")
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
