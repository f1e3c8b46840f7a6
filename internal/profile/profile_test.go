package profile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_FillsDefaults(t *testing.T) {
	p := &Profile{Mode: "staging", Data: t.TempDir()}
	require.NoError(t, p.Validate())

	assert.Equal(t, "dev", p.Mode)
	assert.Equal(t, "sqlite", p.Driver)
	assert.True(t, strings.HasSuffix(p.DSN, "recall_dev.db"), "dsn %q", p.DSN)
	assert.True(t, strings.HasSuffix(p.MemoryPath, "memory"), "memory path %q", p.MemoryPath)
	assert.Equal(t, "UTC", p.DefaultTimezone)
	assert.Equal(t, 2*time.Second, p.PollInterval)
	assert.Equal(t, 10*time.Second, p.NotifyTimeout)
	assert.True(t, p.IsDev())
}

func TestValidate_KeepsExplicitSettings(t *testing.T) {
	p := &Profile{
		Mode:            "prod",
		Data:            t.TempDir(),
		DSN:             "custom.db",
		DefaultTimezone: "Asia/Dubai",
		PollInterval:    500 * time.Millisecond,
		NotifyTimeout:   3 * time.Second,
	}
	require.NoError(t, p.Validate())

	assert.Equal(t, "prod", p.Mode)
	assert.Equal(t, "custom.db", p.DSN)
	assert.Equal(t, "Asia/Dubai", p.DefaultTimezone)
	assert.Equal(t, 500*time.Millisecond, p.PollInterval)
	assert.Equal(t, 3*time.Second, p.NotifyTimeout)
	assert.False(t, p.IsDev())
}

func TestValidate_RejectsInvalidDefaultTimezone(t *testing.T) {
	p := &Profile{Mode: "dev", Data: t.TempDir(), DefaultTimezone: "Mars/Crater"}
	assert.Error(t, p.Validate())
}

func TestValidate_RejectsMissingDataDir(t *testing.T) {
	p := &Profile{Mode: "dev", Data: "/nonexistent/recall-data-dir"}
	assert.Error(t, p.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RECALL_MODE", "prod")
	t.Setenv("RECALL_DSN", "/tmp/env.db")
	t.Setenv("RECALL_DEFAULT_TIMEZONE", "Europe/Berlin")
	t.Setenv("RECALL_POLL_INTERVAL", "1s")
	t.Setenv("RECALL_NOTIFY_TIMEOUT", "5s")

	p := &Profile{Mode: "dev"}
	p.FromEnv()

	assert.Equal(t, "prod", p.Mode)
	assert.Equal(t, "/tmp/env.db", p.DSN)
	assert.Equal(t, "Europe/Berlin", p.DefaultTimezone)
	assert.Equal(t, time.Second, p.PollInterval)
	assert.Equal(t, 5*time.Second, p.NotifyTimeout)
}
