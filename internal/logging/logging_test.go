package logging

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

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tasks.log")

	log, closeLog, err := New("info", path)
	require.NoError(t, err)
	log.Debug().Msg("hidden")
	log.Info().Str("id", "abcdefgh").Msg("visible")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "abcdefgh", entry["id"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New("loud", "")
	require.Error(t, err)
}

func TestNewDefaultsLevel(t *testing.T) {
	log, closeLog, err := New("", filepath.Join(t.TempDir(), "tasks.log"))
	require.NoError(t, err)
	defer closeLog()
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestComponentAddsField(t *testing.T) {
	var buf bytes.Buffer
	log := Component(NewWithWriter(&buf, zerolog.DebugLevel), "server")
	log.Debug().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server", entry["cmp"])
}
