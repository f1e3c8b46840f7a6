package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the runtime configuration for the recall daemon.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Data is the data directory
	Data string
	// DSN points to where recall stores its own data
	DSN string
	// Driver is the database driver (only sqlite is supported)
	Driver string
	// Version is the current version of the daemon
	Version string

	// DefaultTimezone is the IANA zone used for conversations that never set one.
	DefaultTimezone string
	// PollInterval is the cadence of the reminder delivery loop.
	PollInterval time.Duration
	// NotifyTimeout bounds a single notifier call so a stuck transport
	// cannot stall subsequent polls.
	NotifyTimeout time.Duration
	// MemoryPath is the directory the vector memory store persists to.
	MemoryPath string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from RECALL_* environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("RECALL_MODE", p.Mode)
	p.Data = getEnvOrDefault("RECALL_DATA", p.Data)
	p.DSN = getEnvOrDefault("RECALL_DSN", p.DSN)
	p.DefaultTimezone = getEnvOrDefault("RECALL_DEFAULT_TIMEZONE", p.DefaultTimezone)
	p.MemoryPath = getEnvOrDefault("RECALL_MEMORY_PATH", p.MemoryPath)

	if v := os.Getenv("RECALL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			p.PollInterval = d
		}
	}
	if v := os.Getenv("RECALL_NOTIFY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			p.NotifyTimeout = d
		}
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and fills in derived defaults.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("recall_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.MemoryPath == "" {
		p.MemoryPath = filepath.Join(dataDir, "memory")
	}

	if p.DefaultTimezone == "" {
		p.DefaultTimezone = "UTC"
	}
	if _, err := time.LoadLocation(p.DefaultTimezone); err != nil {
		return errors.Wrapf(err, "invalid default timezone %q", p.DefaultTimezone)
	}

	// The delivery loop trades latency against polling overhead; keep the
	// cadence inside the 1-5s band unless explicitly configured.
	if p.PollInterval <= 0 {
		p.PollInterval = 2 * time.Second
	}
	if p.NotifyTimeout <= 0 {
		p.NotifyTimeout = 10 * time.Second
	}

	return nil
}
