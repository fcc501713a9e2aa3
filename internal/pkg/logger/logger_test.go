package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN)

	l.Zerolog().Info().Msg("skipped")
	require.Zero(t, buf.Len())

	l.Zerolog().Warn().Str("donation", "abc").Msg("donation expired")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "donation expired", entry["message"])
	require.Equal(t, "abc", entry["donation"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("DEBUG"))
	require.Equal(t, ERROR, ParseLevel(" error "))
	require.Equal(t, INFO, ParseLevel(""))
	require.Equal(t, INFO, ParseLevel("loud"))
}

func TestSetDefaultReplacesGlobal(t *testing.T) {
	var buf bytes.Buffer
	prev := defaultLogger
	t.Cleanup(func() { SetDefault(prev) })

	SetDefault(New(&buf, DEBUG))
	L().Debug().Msg("pickup requested")
	require.Contains(t, buf.String(), "pickup requested")
}
