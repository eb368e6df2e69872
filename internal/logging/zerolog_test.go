package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestZerolog(t *testing.T) (*ZerologLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_Levels(t *testing.T) {
	log, buf := newTestZerolog(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)

	want := []struct{ level, msg, key string }{
		{"debug", "dbg", "a"},
		{"info", "inf", "b"},
		{"warn", "wrn", "c"},
		{"error", "err", "d"},
	}
	for i, w := range want {
		require.Equal(t, w.level, lines[i]["level"])
		require.Equal(t, w.msg, lines[i]["message"])
		require.Contains(t, lines[i], w.key)
	}
}

func TestZerologLogger_With(t *testing.T) {
	log, buf := newTestZerolog(t)

	log.With("module", "auth").Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "auth", lines[0]["module"])
	require.Equal(t, "v", lines[0]["k"])
}

func TestNew_PicksImplementation(t *testing.T) {
	_, ok := New("development").(*ZerologLogger)
	require.True(t, ok)

	_, ok = New("production").(*SlogLogger)
	require.True(t, ok)
}
