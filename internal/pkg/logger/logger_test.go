package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestConfigureTagsServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Configure(Config{Pretty: true}) })

	lvl := Configure(Config{Level: "debug", Output: &buf})
	assert.Equal(t, zerolog.DebugLevel, lvl)

	lgr := Component("fanout")
	lgr.Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, ServiceName, line["service"])
	assert.Equal(t, "fanout", line["component"])
	assert.Equal(t, "hello", line["message"])
}
