package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MinterTeam/minter-coffee/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ModuleLevels(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := newLogger(buf, config.LogFormatPlain, "main:info,*:error")
	require.NoError(t, err)

	logger.With("module", "main").Info("visible")
	logger.With("module", "api").Info("hidden")
	logger.With("module", "api").Error("failure")

	out := buf.String()
	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "failure")
}

func TestNewLogger_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	logger, err := newLogger(buf, config.LogFormatJSON, "*:info")
	require.NoError(t, err)

	logger.Info("started", "height", 3)

	line := strings.TrimSpace(buf.String())
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "started", record["_msg"])
	assert.Equal(t, "info", record["level"])
}

func TestNewLogger_Errors(t *testing.T) {
	_, err := newLogger(new(bytes.Buffer), "xml", "*:info")
	assert.Error(t, err)

	_, err = newLogger(new(bytes.Buffer), config.LogFormatPlain, "main:loud")
	assert.Error(t, err)
}
