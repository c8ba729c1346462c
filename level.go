package prettylogs

import (
	"fmt"
	"strings"
)

// Level identifies the severity of a log entry. Values follow the slog level
// scale for consistency with applications that use it; Success sits between
// Info and Warn but shares Info's rank for filtering.
type Level int

const (
	LevelTrace   Level = -8
	LevelDebug   Level = -4
	LevelInfo    Level = 0
	LevelSuccess Level = 1
	LevelWarn    Level = 4
	LevelError   Level = 8
	LevelFatal   Level = 12
)

// rank returns the numeric severity used for MinLevel comparison. Success
// shares Info's rank, so raising MinLevel above Info silences Success too.
func (l Level) rank() int {
	if l == LevelSuccess {
		return int(LevelInfo)
	}
	return int(l)
}

// String returns the uppercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("UNKNOWN (%d)", int(l))
	}
}

// ParseLevel converts a level name to its Level constant. Matching is
// case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "success":
		return LevelSuccess, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return 0, fmt.Errorf("invalid level: %s", s)
	}
}

// validLevel reports whether l is one of the defined level constants.
func validLevel(l Level) bool {
	switch l {
	case LevelTrace, LevelDebug, LevelInfo, LevelSuccess, LevelWarn, LevelError, LevelFatal:
		return true
	}
	return false
}

// Mode controls which levels a logger emits independently of MinLevel.
type Mode string

const (
	// ModeNormal emits everything above MinLevel except TRACE.
	ModeNormal Mode = "normal"
	// ModeVerbose includes TRACE.
	ModeVerbose Mode = "verbose"
	// ModeDebug includes TRACE.
	ModeDebug Mode = "debug"
	// ModeSilent suppresses all output.
	ModeSilent Mode = "silent"
)

// validMode reports whether m is one of the defined modes.
func validMode(m Mode) bool {
	switch m {
	case ModeNormal, ModeVerbose, ModeDebug, ModeSilent:
		return true
	}
	return false
}

// shouldLog decides whether a level is emitted under the current config.
// It has no side effects.
func (c *Config) shouldLog(level Level) bool {
	if c.Mode == ModeSilent {
		return false
	}
	if len(c.Levels) > 0 {
		allowed := false
		for _, l := range c.Levels {
			if l == level {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	if level == LevelTrace && c.Mode != ModeVerbose && c.Mode != ModeDebug {
		return false
	}
	return level.rank() >= c.MinLevel.rank()
}
