package prettylogs

import (
	"encoding/json"
	"time"
)

// File encodings selectable via Config.LogFormat.
const (
	FormatText       = "text"
	FormatJSON       = "json"
	FormatStructured = "structured"
)

// metadataSentinel replaces metadata values that cannot be serialized, such
// as values containing circular references.
const metadataSentinel = `"[unserializable]"`

// Formatter renders one entry into a single output line without a trailing
// newline. A formatter set on the config overrides the built-in console and
// file renderings identically.
type Formatter func(e *Entry) string

// timestamp renders t using the configured date format.
func (c *Config) timestamp(t time.Time) string {
	layout := c.DateFormat
	if layout == "" {
		layout = time.RFC3339
	}
	return t.Format(layout)
}

// formatConsole renders the console line for an entry. Structured arguments
// are folded into the message, indented when PrettyPrint is set.
func formatConsole(e *Entry, cfg *Config, report func(error)) string {
	if cfg.Formatter != nil {
		return cfg.Formatter(e)
	}

	buf := make([]byte, 0, 128)
	buf = append(buf, '[')
	buf = append(buf, cfg.timestamp(e.Time)...)
	buf = append(buf, "] "...)
	buf = append(buf, levelTag(e.Level, cfg.colorize())...)
	if e.Namespace != "" {
		buf = append(buf, '[')
		buf = append(buf, e.Namespace...)
		buf = append(buf, ']')
	}
	buf = append(buf, ": "...)
	buf = append(buf, e.Message...)

	for _, meta := range e.Metadata {
		data := marshalMetadataValue(meta, cfg.prettyPrint(), report)
		buf = append(buf, ' ')
		buf = append(buf, data...)
	}
	return string(buf)
}

// formatFile renders the file line for an entry, including the trailing
// newline, in the configured encoding.
func formatFile(e *Entry, cfg *Config, report func(error)) []byte {
	if cfg.Formatter != nil {
		return append([]byte(cfg.Formatter(e)), '\n')
	}

	switch cfg.LogFormat {
	case FormatJSON:
		return appendJSONLine(nil, e, cfg, report)
	case FormatStructured:
		return appendStructuredLine(nil, e, cfg, report)
	default:
		return appendTextLine(nil, e, cfg)
	}
}

// appendTextLine renders "[ts] [LEVEL][namespace]: message".
func appendTextLine(buf []byte, e *Entry, cfg *Config) []byte {
	buf = append(buf, '[')
	buf = append(buf, cfg.timestamp(e.Time)...)
	buf = append(buf, "] ["...)
	buf = append(buf, e.Level.String()...)
	buf = append(buf, ']')
	if e.Namespace != "" {
		buf = append(buf, '[')
		buf = append(buf, e.Namespace...)
		buf = append(buf, ']')
	}
	buf = append(buf, ": "...)
	buf = append(buf, e.Message...)
	buf = append(buf, '\n')
	return buf
}

// jsonLine fixes the key order of the json encoding.
type jsonLine struct {
	Timestamp   string          `json:"timestamp"`
	Level       string          `json:"level"`
	Namespace   string          `json:"namespace,omitempty"`
	Message     string          `json:"message"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Environment string          `json:"environment,omitempty"`
	PID         int             `json:"pid,omitempty"`
	Hostname    string          `json:"hostname,omitempty"`
}

// appendJSONLine renders one serialized object per line.
func appendJSONLine(buf []byte, e *Entry, cfg *Config, report func(error)) []byte {
	line := jsonLine{
		Timestamp:   cfg.timestamp(e.Time),
		Level:       e.Level.String(),
		Namespace:   e.Namespace,
		Message:     e.Message,
		Metadata:    marshalMetadata(e.Metadata, report),
		Environment: e.Environment,
		PID:         e.PID,
		Hostname:    e.Hostname,
	}
	data, err := json.Marshal(line)
	if err != nil {
		// Metadata is already sanitized; this only fires on invalid
		// formatter-produced strings, which Marshal escapes anyway.
		report(&SerializationError{Err: err})
		data = []byte(metadataSentinel)
	}
	buf = append(buf, data...)
	buf = append(buf, '\n')
	return buf
}

// appendStructuredLine renders space-joined fields, tolerant of absent
// namespace and metadata.
func appendStructuredLine(buf []byte, e *Entry, cfg *Config, report func(error)) []byte {
	buf = append(buf, cfg.timestamp(e.Time)...)
	buf = append(buf, " ["...)
	buf = append(buf, e.Level.String()...)
	buf = append(buf, ']')
	if e.Namespace != "" {
		buf = append(buf, " ["...)
		buf = append(buf, e.Namespace...)
		buf = append(buf, ']')
	}
	buf = append(buf, ' ')
	buf = append(buf, e.Message...)
	if len(e.Metadata) > 0 {
		buf = append(buf, ' ')
		buf = append(buf, marshalMetadata(e.Metadata, report)...)
	}
	buf = append(buf, '\n')
	return buf
}

// marshalMetadata serializes the metadata arguments of an entry. A single
// argument is serialized directly, multiple arguments as an array. Returns
// nil when there is no metadata.
func marshalMetadata(metadata []any, report func(error)) json.RawMessage {
	switch len(metadata) {
	case 0:
		return nil
	case 1:
		return marshalMetadataValue(metadata[0], false, report)
	}

	buf := []byte{'['}
	for i, meta := range metadata {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, marshalMetadataValue(meta, false, report)...)
	}
	return append(buf, ']')
}

// marshalMetadataValue serializes one metadata value, substituting the
// sentinel when serialization fails (circular references included).
func marshalMetadataValue(v any, pretty bool, report func(error)) json.RawMessage {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		report(&SerializationError{Err: err})
		return json.RawMessage(metadataSentinel)
	}
	return data
}
