// Package config provides configuration for the server and agent binaries
// from command-line flags, environment variables, an optional JSON config
// file, and a local .env file.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ServerOptions holds the configuration for the backend server.
type ServerOptions struct {
	// Addr is the server's listening address (ip:port).
	Addr string `json:"addr"`
	// DatabaseDSN is the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn"`
	// AuthToken is the shared bearer token the fronting auth layer presents.
	AuthToken string `json:"auth_token"`
	// AuditSecret keys the audit chain HMAC. It must come from the
	// environment or config file; there is no default.
	AuditSecret string `json:"audit_secret"`
	// Config is the path to an optional JSON config file.
	Config string `json:"-"`
}

// AgentOptions holds the configuration for the clipboard agent.
type AgentOptions struct {
	// ServerURL is the backend base URL.
	ServerURL string `json:"server_url"`
	// AuthToken is the bearer token for the backend.
	AuthToken string `json:"auth_token"`
	// UserID, OrgID and DeviceID identify this agent to the backend.
	UserID   string `json:"user_id"`
	OrgID    string `json:"org_id"`
	DeviceID string `json:"device_id"`
	// ContentKey is the hex-encoded 256-bit team content key. Empty means
	// generate a fresh key at startup (entries then decrypt only locally).
	ContentKey string `json:"content_key"`
	// PollInterval is how often the OS clipboard is checked for changes.
	PollInterval time.Duration `json:"poll_interval"`
	// PullInterval is how often the latest remote entry is fetched.
	PullInterval time.Duration `json:"pull_interval"`
	// EntryTTL is the expiry attached to uploaded entries.
	EntryTTL time.Duration `json:"entry_ttl"`
	// Config is the path to an optional JSON config file.
	Config string `json:"-"`
}

// ParseServer reads server configuration. Precedence, lowest to highest:
// flag defaults, JSON config file, environment variables, explicit flags
// are overridden by env to keep container deployments simple.
func ParseServer(args []string) (*ServerOptions, error) {
	_ = godotenv.Load()

	opts := &ServerOptions{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.Addr, "a", "localhost:8080", "run on ip:port")
	fs.StringVar(&opts.DatabaseDSN, "d", "", "database DSN")
	fs.StringVar(&opts.AuthToken, "t", "", "shared bearer token")
	fs.StringVar(&opts.Config, "c", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG"); path != "" {
		opts.Config = path
	}
	if err := loadFile(opts.Config, opts); err != nil {
		return nil, err
	}

	applyEnv("SERVER_ADDRESS", &opts.Addr)
	applyEnv("DATABASE_DSN", &opts.DatabaseDSN)
	applyEnv("AUTH_TOKEN", &opts.AuthToken)
	applyEnv("AUDIT_SECRET", &opts.AuditSecret)

	return opts, nil
}

// ParseAgent reads agent configuration with the same precedence as ParseServer.
func ParseAgent(args []string) (*AgentOptions, error) {
	_ = godotenv.Load()

	opts := &AgentOptions{}
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fs.StringVar(&opts.ServerURL, "url", "http://localhost:8080", "server base URL")
	fs.StringVar(&opts.AuthToken, "t", "", "bearer token")
	fs.StringVar(&opts.UserID, "user", "", "user id")
	fs.StringVar(&opts.OrgID, "org", "", "organization id")
	fs.StringVar(&opts.DeviceID, "device", "", "device id")
	fs.StringVar(&opts.ContentKey, "key", "", "hex-encoded 256-bit content key")
	fs.DurationVar(&opts.PollInterval, "poll", 5*time.Second, "clipboard poll interval")
	fs.DurationVar(&opts.PullInterval, "pull", 30*time.Second, "remote pull interval")
	fs.DurationVar(&opts.EntryTTL, "ttl", 24*time.Hour, "uploaded entry lifetime")
	fs.StringVar(&opts.Config, "c", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG"); path != "" {
		opts.Config = path
	}
	if err := loadFile(opts.Config, opts); err != nil {
		return nil, err
	}

	applyEnv("SERVER_URL", &opts.ServerURL)
	applyEnv("AUTH_TOKEN", &opts.AuthToken)
	applyEnv("USER_ID", &opts.UserID)
	applyEnv("ORG_ID", &opts.OrgID)
	applyEnv("DEVICE_ID", &opts.DeviceID)
	applyEnv("CONTENT_KEY", &opts.ContentKey)

	return opts, nil
}

func loadFile(path string, into any) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
