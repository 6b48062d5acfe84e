package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFormat_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithFormat(&buf, FormatJSON, slog.LevelInfo)
	require.NoError(t, err)

	logger.Info("renderer failed", "error", errors.New("boom"))

	assert.Contains(t, buf.String(), `"err":"boom"`)
	assert.NotContains(t, buf.String(), `"error"`)
}

func TestNewWithFormat_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithFormat(&buf, FormatText, slog.LevelWarn)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewWithFormat_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithFormat(&buf, FormatPretty, slog.LevelDebug)
	require.NoError(t, err)

	logger.Debug("run started", "algorithm", "heap")
	assert.Contains(t, buf.String(), "run started")
	assert.Contains(t, buf.String(), "heap")
}

func TestNewWithFormat_Unknown(t *testing.T) {
	_, err := NewWithFormat(&bytes.Buffer{}, "xml", slog.LevelInfo)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
