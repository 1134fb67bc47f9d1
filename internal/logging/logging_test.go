package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", false)
	require.NoError(t, err)
	log.Debug().Int("patches", 2).Msg("scanned")
	require.Contains(t, buf.String(), `"level":"debug"`)
	require.Contains(t, buf.String(), `"patches":2`)
	require.Contains(t, buf.String(), `"time":`)
}

func TestNewDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "", false)
	require.NoError(t, err)
	log.Info().Msg("hidden")
	require.Empty(t, buf.String())
	log.Warn().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "INFO", true)
	require.NoError(t, err)
	log.Info().Str("method", "Main").Msg("patched")
	require.Contains(t, buf.String(), "patched")
	require.Contains(t, buf.String(), "method=")
	require.NotContains(t, buf.String(), `"message"`)
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty", false)
	require.Error(t, err)
}

func TestIsTerminalFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()
	require.False(t, IsTerminal(f))
}
