package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := Setup(LogConfig{Level: "loud", Format: "json", Output: "stderr"})
		assert.Error(t, err)
	})

	t.Run("writes json to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.log")
		require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: path}))

		l := WithComponent("test")
		l.Info().Msg("hello")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"component":"test"`)
		assert.Contains(t, string(data), `"message":"hello"`)
	})
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	l := WithRunID(zerolog.New(&buf), "run-1")
	l.Warn().Msg("x")
	assert.Contains(t, buf.String(), `"run_id":"run-1"`)
}
