// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseLevel(tc.input), "level %q", tc.input)
	}
}

func TestNewWithWriter_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	log := l.Component("storage")
	log.Info().Str("path", "conversations.json").Msg("saved")
	log.Debug().Msg("filtered out")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "lmchat", entry["service"])
	assert.Equal(t, "storage", entry["component"])
	assert.Equal(t, "saved", entry["message"])
	assert.Equal(t, "conversations.json", entry["path"])
}

func TestZerolog_SharesSink(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug")

	zl := l.Zerolog()
	zl.Debug().Str("version", "dev").Msg("build info")
	zl.Warn().Msg("watch disabled")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "dev", entry["version"])
	assert.Equal(t, "lmchat", entry["service"])
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	zl := l.Zerolog()
	zl.Info().Msg("nowhere")
	assert.NoError(t, l.Close())
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lmchat.log")

	l, err := New(Config{Level: "debug", Path: path})
	require.NoError(t, err)
	l.LogStartup("http://localhost:1234", "local-model", "conversations.json")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"startup"`)
}
