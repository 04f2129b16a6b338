package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "relver.log")
	var console bytes.Buffer

	logger, closer, err := New(Config{
		Level:      logrus.DebugLevel,
		OutputFile: path,
		JSONFormat: true,
		Stderr:     &console,
	})
	require.NoError(t, err)

	logger.WithField("version", "0.01.013.000").Info("version bumped")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "version bumped", entry["msg"])
	assert.Equal(t, "0.01.013.000", entry["version"])
	assert.Contains(t, console.String(), "version bumped")
}

func TestNew_RespectsLevel(t *testing.T) {
	var console bytes.Buffer
	logger, _, err := New(Config{Level: logrus.WarnLevel, Stderr: &console})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
}

func TestRotateIfNeeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relver.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0644))

	err := rotateIfNeeded(Config{OutputFile: path, MaxSize: 32, MaxBackups: 2})
	require.NoError(t, err)

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("nonsense"))
}
