// SPDX-License-Identifier: MIT
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

func TestNewLogger_Fanout(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := newLogger(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("inversion finished", "iterations", 7)

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "inversion finished")
	assert.Contains(t, stderr.String(), "iterations=7")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(file.String())), &rec))
	assert.Equal(t, "inversion finished", rec["msg"])
	assert.Equal(t, float64(7), rec["iterations"])
}

func TestNewLogger_StderrOnly(t *testing.T) {
	var stderr bytes.Buffer
	logger := newLogger(&stderr, nil, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("reading rejected", "index", 3)

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "index=3")
}
