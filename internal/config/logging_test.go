package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("message appended", "message_id", "msg-1")

	assert.Contains(t, stderr.String(), "message appended")
	assert.Contains(t, stderr.String(), "message_id=msg-1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "message appended", record["msg"])
	assert.Equal(t, "msg-1", record["message_id"])
}

func TestSetupLoggerWithWritersRespectsLevel(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("too quiet")
	logger.Info("still too quiet")
	assert.Empty(t, strings.TrimSpace(stderr.String()))
	assert.Empty(t, strings.TrimSpace(file.String()))

	logger.Warn("loud enough")
	assert.Contains(t, stderr.String(), "loud enough")
}
