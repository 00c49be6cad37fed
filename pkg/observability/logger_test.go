package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "info", Console: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.With(String("run_id", "r1")).Info("report file sent", Int("status", 200), Bool("ok", true))
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "report file sent")
	assert.Contains(t, out, `"run_id": "r1"`)
	assert.Contains(t, out, `"status": 200`)
}

func TestLoggerInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	assert.NotNil(t, NewLogger("loud"))
}

func TestLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "publisher.log")
	var console bytes.Buffer

	l, err := New(Options{Level: "debug", File: path, Console: &console})
	require.NoError(t, err)

	l.Warn("failed to send report file", String("file", "a.json"), Err(errors.New("connection refused")))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "failed to send report file", entry["msg"])
	assert.Equal(t, "a.json", entry["file"])
	assert.Equal(t, "connection refused", entry["error"])
	assert.Contains(t, console.String(), "failed to send report file")
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.With(String("k", "v")).Error("ignored")
	})
	assert.NoError(t, l.Sync())
}
