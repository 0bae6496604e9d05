package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/erp-core/e2e-api-tests/config"
	"github.com/erp-core/e2e-api-tests/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LogConfig{Level: "info", Format: config.LogFormatJSON})
	logger.Debug().Msg("hidden")
	logger.Info().Str("url", "http://localhost:30308").Msg("starting")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "starting", line["message"])
	assert.Equal(t, "http://localhost:30308", line["url"])
	assert.Equal(t, "info", line["level"])
}

func TestNewConsoleHasNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LogConfig{Level: "info", Format: config.LogFormatConsole})
	logger.Info().Msg("plain")
	assert.Contains(t, buf.String(), "plain")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestPrinterSatisfiesFrameworkLogger(t *testing.T) {
	var buf bytes.Buffer
	var l framework.Logger = NewPrinter(New(&buf, config.LogConfig{Level: "debug", Format: config.LogFormatJSON}), "client")
	l.Printf("GET %s -> %d", "/api/index", 200)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "GET /api/index -> 200", line["message"])
	assert.Equal(t, "client", line["component"])
	assert.Equal(t, "debug", line["level"])
}
