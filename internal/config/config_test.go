package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipsentry/clipsentry/internal/config"
)

func TestParseServer_Defaults(t *testing.T) {
	opts, err := config.ParseServer(nil)
	if err != nil {
		t.Fatalf("ParseServer returned error: %v", err)
	}
	if opts.Addr != "localhost:8080" {
		t.Errorf("Addr = %q; want localhost:8080", opts.Addr)
	}
	if opts.AuditSecret != "" {
		t.Errorf("AuditSecret = %q; want empty default", opts.AuditSecret)
	}
}

func TestParseServer_EnvOverridesFlags(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "0.0.0.0:9090")
	t.Setenv("AUDIT_SECRET", "from-env")

	opts, err := config.ParseServer([]string{"-a", "localhost:1234"})
	if err != nil {
		t.Fatalf("ParseServer returned error: %v", err)
	}
	if opts.Addr != "0.0.0.0:9090" {
		t.Errorf("Addr = %q; want env value 0.0.0.0:9090", opts.Addr)
	}
	if opts.AuditSecret != "from-env" {
		t.Errorf("AuditSecret = %q; want from-env", opts.AuditSecret)
	}
}

func TestParseServer_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"addr":"127.0.0.1:3000","database_dsn":"postgres://file","audit_secret":"file-secret"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	opts, err := config.ParseServer([]string{"-c", path})
	if err != nil {
		t.Fatalf("ParseServer returned error: %v", err)
	}
	if opts.Addr != "127.0.0.1:3000" {
		t.Errorf("Addr = %q; want file value 127.0.0.1:3000", opts.Addr)
	}
	if opts.DatabaseDSN != "postgres://file" {
		t.Errorf("DatabaseDSN = %q; want postgres://file", opts.DatabaseDSN)
	}
	if opts.AuditSecret != "file-secret" {
		t.Errorf("AuditSecret = %q; want file-secret", opts.AuditSecret)
	}
}

func TestParseAgent_Defaults(t *testing.T) {
	opts, err := config.ParseAgent(nil)
	if err != nil {
		t.Fatalf("ParseAgent returned error: %v", err)
	}
	if opts.ServerURL != "http://localhost:8080" {
		t.Errorf("ServerURL = %q; want http://localhost:8080", opts.ServerURL)
	}
	if opts.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v; want 5s", opts.PollInterval)
	}
	if opts.PullInterval != 30*time.Second {
		t.Errorf("PullInterval = %v; want 30s", opts.PullInterval)
	}
	if opts.EntryTTL != 24*time.Hour {
		t.Errorf("EntryTTL = %v; want 24h", opts.EntryTTL)
	}
}

func TestParseAgent_FlagsAndEnv(t *testing.T) {
	t.Setenv("CONTENT_KEY", "deadbeef")

	opts, err := config.ParseAgent([]string{
		"-user", "u-1",
		"-org", "org-1",
		"-device", "dev-1",
		"-poll", "2s",
	})
	if err != nil {
		t.Fatalf("ParseAgent returned error: %v", err)
	}
	if opts.UserID != "u-1" || opts.OrgID != "org-1" || opts.DeviceID != "dev-1" {
		t.Errorf("identity = %q/%q/%q; want u-1/org-1/dev-1", opts.UserID, opts.OrgID, opts.DeviceID)
	}
	if opts.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v; want 2s", opts.PollInterval)
	}
	if opts.ContentKey != "deadbeef" {
		t.Errorf("ContentKey = %q; want env value deadbeef", opts.ContentKey)
	}
}
