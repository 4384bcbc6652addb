package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"rssreader/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDispatcherHandler_RoutesByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	log := slog.New(NewLevelDispatcherHandler(&out, &errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Debug("debug message")
	log.Info("info message")
	log.Error("error message")

	assert.Contains(t, out.String(), "DEBUG: debug message")
	assert.Contains(t, out.String(), "INFO: info message")
	assert.NotContains(t, out.String(), "error message")
	assert.Contains(t, errOut.String(), "ERROR: error message")
}

func TestReadableHandler_Level(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(NewReadableHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "WARN: shown")
}

func TestReadableHandler_NilOptions(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(NewReadableHandler(&out, nil))

	log.Debug("hidden")
	log.Info("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "INFO: shown")
}

func TestReadableHandler_WithAttrsKeepsComponentAndOp(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(NewReadableHandler(&out, nil)).
		With(slog.String("component", "parser")).
		With(slog.String("op", "readItem"))

	log.Info("decoded", slog.Int("count", 3))

	assert.Contains(t, out.String(), "INFO [parser] (readItem): decoded | count=3")
}

func TestReadableHandler_WithGroup(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(NewReadableHandler(&out, nil)).WithGroup("feed")

	log.Info("loaded", slog.String("source", "cache"))

	assert.Contains(t, out.String(), "loaded | feed.source=cache")
}

func TestReadableHandler_FormatsSpecialAttrs(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(NewReadableHandler(&out, nil))

	log.Info("fetched",
		slog.String("url", "http://feeds.abcnews.com/abcnews/topstories/with/a/very/long/path"),
		slog.Duration("duration", 1234567890),
		slog.String("error", "boom"),
	)

	line := out.String()
	assert.Contains(t, line, "url=http://feeds.abcnews.com/...")
	assert.Contains(t, line, "took=1.235s")
	assert.Contains(t, line, `error="boom"`)
}

func TestReadableHandler_AddSource(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(NewReadableHandler(&out, &slog.HandlerOptions{AddSource: true}))

	log.Info("with source")

	assert.Contains(t, out.String(), "<logger_test.go:")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestNew_WritesToFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LoggerConfig{
		Level:     "info",
		File:      filepath.Join(dir, "rssreader.log"),
		ErrorFile: filepath.Join(dir, "rssreader_error.log"),
	}

	log, err := New(cfg)
	require.NoError(t, err)
	log.Info("started")
	log.Error("failed")

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")
	errData, err := os.ReadFile(cfg.ErrorFile)
	require.NoError(t, err)
	assert.Contains(t, string(errData), "failed")
}

func TestNew_BadPath(t *testing.T) {
	_, err := New(config.LoggerConfig{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	require.Error(t, err)
}
