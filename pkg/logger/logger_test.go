package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "debug", "")
	log.Debug("hello", "component", "test")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "moodmate", line["service"])
	require.Equal(t, "hello", line["msg"])
}

func TestNewWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "warn", "text")
	log.Info("dropped")
	require.Zero(t, buf.Len())
	log.Warn("kept")
	require.Contains(t, buf.String(), "kept")
}
