package prettylogs

import (
	"fmt"
	"strconv"
	"time"
)

// Entry is the in-memory representation of one log call. It is created per
// call, consumed by the formatter, and never retained.
type Entry struct {
	Time        time.Time
	Level       Level
	Namespace   string
	Message     string
	Metadata    []any
	Environment string
	PID         int
	Hostname    string
}

// splitArgs resolves variadic, type-mixed call arguments into a message and
// structured metadata. Primitive values (strings, numbers, booleans, errors,
// Stringers) join the message; everything else is carried as metadata and
// serialized by the formatter.
func splitArgs(args []any) (string, []any) {
	var msg []byte
	var metadata []any

	for _, arg := range args {
		s, primitive := stringifyPrimitive(arg)
		if !primitive {
			metadata = append(metadata, arg)
			continue
		}
		if len(msg) > 0 {
			msg = append(msg, ' ')
		}
		msg = append(msg, s...)
	}
	return string(msg), metadata
}

// stringifyPrimitive converts scalar-like values to text. The second return
// is false for values that belong in metadata instead of the message.
func stringifyPrimitive(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	case nil:
		return "null", true
	case error:
		return val.Error(), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}
