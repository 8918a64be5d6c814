package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesSections(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
url = "http://tasks.local:8080/"
timeout = "5s"
rate_limit = 2.5

[notifications]
enabled = false
interval = 45
reminder_interval = "0s"

[board]
group_by = "priority"
show_closed = true

[log]
level = "DEBUG"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://tasks.local:8080", cfg.Server.URL)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout.Duration)
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
	assert.Equal(t, 5, cfg.Server.Burst)
	assert.False(t, cfg.Notifications.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Notifications.Interval.Duration)
	assert.Zero(t, cfg.Notifications.ReminderInterval.Duration)
	assert.Equal(t, "priority", cfg.Board.GroupBy)
	assert.True(t, cfg.Board.ShowClosed)
	assert.Equal(t, "follow_up_date", cfg.Board.SortBy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30*time.Minute, cfg.Summary.AutoInterval.Duration)
}

func TestLoadNormalizesUnknownValues(t *testing.T) {
	t.Parallel()
	cfg, err := parse([]byte(`
[board]
group_by = "colour"
[notifications]
interval = "10ms"
[log]
level = "loud"
`))
	require.NoError(t, err)
	assert.Equal(t, "status", cfg.Board.GroupBy)
	assert.Equal(t, 30*time.Second, cfg.Notifications.Interval.Duration)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMalformedReturnsDefaultsAndError(t *testing.T) {
	t.Parallel()
	cfg, err := parse([]byte("[server\nurl="))
	require.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Server.URL = "http://example.test"
	want.Summary.IncludeClosed = true
	want.Notifications.ReminderInterval = Duration{5 * time.Minute}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvServer, "http://env.test/")
	t.Setenv(EnvDebug, "1")
	cfg := ApplyEnv(Default())
	assert.Equal(t, "http://env.test", cfg.Server.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestPathHonorsEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(EnvConfig, p)
	assert.Equal(t, p, Path())
	assert.Equal(t, filepath.Dir(p), Dir())
}

func TestWatchReloadsOnWrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(path, Default()))

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	reloaded := make(chan Config, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, log, func(c Config) {
			select {
			case reloaded <- c:
			default:
			}
		})
	}()

	require.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if e.Message == "watching config" {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	muted := Default()
	muted.Notifications.Enabled = false
	require.NoError(t, Save(path, muted))

	select {
	case c := <-reloaded:
		assert.False(t, c.Notifications.Enabled)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)
}
