package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/midiutil/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_FileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midi.log")

	log := NewZapLogger()
	log.SetDestination(contracts.FileLog, path)
	log.Info("port opened",
		log.Field().String("port", "USB MIDI Device"),
		log.Field().Int("index", 0),
		log.Field().Bytes("data", []byte{0x90, 0x3C, 0x7F}),
		log.Field().Error("error", errors.New("boom")),
	)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"port opened"`)
	assert.Contains(t, out, `"port":"USB MIDI Device"`)
	assert.Contains(t, out, `"index":0`)
	assert.Contains(t, out, `"data":"90 3C 7F"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestZapLogger_SetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midi.log")

	log := NewZapLogger()
	log.SetDestination(contracts.FileLog, path)
	log.SetLevel(contracts.WarnLevel)
	log.Info("hidden")
	log.Debug("hidden too")
	log.Warn("shown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")

	log.SetLevel(contracts.DebugLevel)
	log.Debug("now visible")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "now visible")
}

func TestZapLogger_FileDestinationWithoutPathKeepsOutput(t *testing.T) {
	log := NewNopLogger()
	assert.NotPanics(t, func() {
		log.SetDestination(contracts.FileLog)
		log.Info("still fine")
	})
}

func TestZapLevel(t *testing.T) {
	assert.Equal(t, "info", zapLevel(0).String())
	assert.Equal(t, "debug", zapLevel(contracts.DebugLevel).String())
	assert.Equal(t, "warn", zapLevel(contracts.WarnLevel).String())
	assert.Equal(t, "error", zapLevel(contracts.ErrorLevel).String())
	assert.Equal(t, "fatal", zapLevel(contracts.FatalLevel).String())
}
