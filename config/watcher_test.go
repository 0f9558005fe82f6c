package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "polling:\n  interval: 5s\n")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, quietLogger(), func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, 5*time.Second, w.Snapshot().Polling.Interval)

	require.NoError(t, os.WriteFile(path, []byte("polling:\n  interval: 3s\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 3*time.Second, cfg.Polling.Interval)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	assert.Equal(t, 3*time.Second, w.Snapshot().Polling.Interval)
	assert.GreaterOrEqual(t, w.ReloadCount(), uint32(1))
}

func TestWatcher_KeepsSnapshotOnInvalidReload(t *testing.T) {
	path := writeConfig(t, "polling:\n  interval: 5s\n")

	failures := make(chan error, 4)
	w, err := NewWatcher(path, quietLogger(), func(cfg *Config, err error) {
		if err != nil {
			failures <- err
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("polling:\n  interval: never\n"), 0o644))

	select {
	case err := <-failures:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("invalid config was not reported")
	}

	assert.Equal(t, 5*time.Second, w.Snapshot().Polling.Interval)
}

func TestWatcher_ReloadsAfterRenameOverFile(t *testing.T) {
	path := writeConfig(t, "polling:\n  interval: 5s\n")

	reloaded := make(chan *Config, 8)
	w, err := NewWatcher(path, quietLogger(), func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})
	require.NoError(t, err)
	defer w.Close()

	saveAtomically := func(body string) {
		tmp := filepath.Join(filepath.Dir(path), ".narrator.yaml.swp")
		require.NoError(t, os.WriteFile(tmp, []byte(body), 0o644))
		require.NoError(t, os.Rename(tmp, path))
	}
	waitFor := func(want time.Duration) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case cfg := <-reloaded:
				if cfg.Polling.Interval == want {
					return
				}
			case <-deadline:
				t.Fatalf("config was not reloaded to %s", want)
			}
		}
	}

	saveAtomically("polling:\n  interval: 3s\n")
	waitFor(3 * time.Second)

	saveAtomically("polling:\n  interval: 2s\n")
	waitFor(2 * time.Second)

	assert.Equal(t, 2*time.Second, w.Snapshot().Polling.Interval)
}
