package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", &buf)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Str("piece", "T").Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "piece=T")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewFile(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	l, closer, err := NewFile("debug", "notris-test.log")
	require.NoError(t, err)
	l.Debug().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(os.TempDir(), "notris-test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
