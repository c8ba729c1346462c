package prettylogs

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var formatTestTime = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

func discardErrors(error) {}

func testEntry(ns string, metadata ...any) *Entry {
	return &Entry{
		Time:      formatTestTime,
		Level:     LevelInfo,
		Namespace: ns,
		Message:   "server started",
		Metadata:  metadata,
	}
}

func TestFormatText(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("with namespace", func(t *testing.T) {
		line := appendTextLine(nil, testEntry("api"), cfg)
		assert.Equal(t, "[2025-06-01T12:30:00Z] [INFO][api]: server started\n", string(line))
	})

	t.Run("namespace brackets omitted when absent", func(t *testing.T) {
		line := appendTextLine(nil, testEntry(""), cfg)
		assert.Equal(t, "[2025-06-01T12:30:00Z] [INFO]: server started\n", string(line))
	})

	t.Run("custom date format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DateFormat = "2006-01-02"
		line := appendTextLine(nil, testEntry(""), cfg)
		assert.Equal(t, "[2025-06-01] [INFO]: server started\n", string(line))
	})
}

func TestFormatJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFormat = FormatJSON

	t.Run("one object per line with fixed key order", func(t *testing.T) {
		e := testEntry("api", map[string]any{"port": 8080})
		e.Environment = "production"
		e.PID = 123
		e.Hostname = "host-1"

		line := string(formatFile(e, cfg, discardErrors))
		require.True(t, strings.HasSuffix(line, "\n"))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &decoded))
		assert.Equal(t, "INFO", decoded["level"])
		assert.Equal(t, "api", decoded["namespace"])
		assert.Equal(t, "server started", decoded["message"])
		assert.Equal(t, "production", decoded["environment"])
		assert.Equal(t, float64(123), decoded["pid"])
		assert.Equal(t, "host-1", decoded["hostname"])

		// Key order is part of the format.
		assert.Less(t, strings.Index(line, `"timestamp"`), strings.Index(line, `"level"`))
		assert.Less(t, strings.Index(line, `"level"`), strings.Index(line, `"message"`))
	})

	t.Run("absent fields are omitted", func(t *testing.T) {
		line := string(formatFile(testEntry(""), cfg, discardErrors))
		assert.NotContains(t, line, "namespace")
		assert.NotContains(t, line, "metadata")
		assert.NotContains(t, line, "pid")
	})
}

func TestFormatStructured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFormat = FormatStructured

	t.Run("space-joined fields", func(t *testing.T) {
		line := string(formatFile(testEntry("api", map[string]any{"port": 8080}), cfg, discardErrors))
		assert.Equal(t, "2025-06-01T12:30:00Z [INFO] [api] server started {\"port\":8080}\n", line)
	})

	t.Run("tolerates absent namespace and metadata", func(t *testing.T) {
		line := string(formatFile(testEntry(""), cfg, discardErrors))
		assert.Equal(t, "2025-06-01T12:30:00Z [INFO] server started\n", line)
	})
}

func TestCustomFormatter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Formatter = func(e *Entry) string {
		return e.Level.String() + "|" + e.Message
	}

	// A custom formatter overrides console and file paths identically.
	assert.Equal(t, "INFO|server started", formatConsole(testEntry("api"), cfg, discardErrors))
	assert.Equal(t, "INFO|server started\n", string(formatFile(testEntry("api"), cfg, discardErrors)))
}

func TestFormatConsole(t *testing.T) {
	t.Run("plain line without color", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Colorize = Bool(false)
		line := formatConsole(testEntry("api"), cfg, discardErrors)
		assert.Equal(t, "[2025-06-01T12:30:00Z] [INFO][api]: server started", line)
	})

	t.Run("metadata folded into message", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Colorize = Bool(false)
		line := formatConsole(testEntry("", map[string]any{"port": 8080}), cfg, discardErrors)
		assert.Equal(t, "[2025-06-01T12:30:00Z] [INFO]: server started {\"port\":8080}", line)
	})

	t.Run("pretty print indents folded metadata", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Colorize = Bool(false)
		cfg.PrettyPrint = Bool(true)
		line := formatConsole(testEntry("", map[string]any{"port": 8080}), cfg, discardErrors)
		assert.Contains(t, line, "{\n  \"port\": 8080\n}")
	})
}

func TestMetadataSerialization(t *testing.T) {
	t.Run("circular reference substitutes sentinel", func(t *testing.T) {
		cyclic := map[string]any{}
		cyclic["self"] = cyclic

		var reported []error
		data := marshalMetadataValue(cyclic, false, func(err error) { reported = append(reported, err) })
		assert.Equal(t, metadataSentinel, string(data))
		require.Len(t, reported, 1)
		var serr *SerializationError
		assert.ErrorAs(t, reported[0], &serr)
	})

	t.Run("unserializable type substitutes sentinel", func(t *testing.T) {
		data := marshalMetadataValue(make(chan int), false, discardErrors)
		assert.Equal(t, metadataSentinel, string(data))
	})

	t.Run("multiple values serialize as array", func(t *testing.T) {
		data := marshalMetadata([]any{map[string]any{"a": 1}, map[string]any{"b": 2}}, discardErrors)
		assert.Equal(t, `[{"a":1},{"b":2}]`, string(data))
	})

	t.Run("no metadata yields nil", func(t *testing.T) {
		assert.Nil(t, marshalMetadata(nil, discardErrors))
	})
}

func TestSplitArgs(t *testing.T) {
	meta := map[string]any{"k": "v"}
	msg, metadata := splitArgs([]any{"user", 42, true, meta, 3.5})
	assert.Equal(t, "user 42 true 3.5", msg)
	require.Len(t, metadata, 1)
	assert.Equal(t, meta, metadata[0])
}
