package prettylogs

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config defines the logger configuration. All serializable fields can be
// loaded from JSON, YAML, or TOML files via LoadFile.
//
// When a Config is merged over an existing one (New, SetConfig), zero values
// mean "keep the current value" for strings, numbers, durations, and the
// level set. The boolean options are pointers so that an absent field is
// distinguishable from an explicit false; use Bool to set them.
type Config struct {
	Levels        []Level       `mapstructure:"levels" json:"levels" toml:"levels"`                         // Allow-set; empty permits all levels
	MinLevel      Level         `mapstructure:"min_level" json:"min_level" toml:"min_level"`                // Minimum rank to emit
	Mode          Mode          `mapstructure:"mode" json:"mode" toml:"mode"`                               // normal, verbose, debug, silent
	LogFile       string        `mapstructure:"log_file" json:"log_file" toml:"log_file"`                   // File path; empty disables file logging
	MaxFileSize   int64         `mapstructure:"max_file_size" json:"max_file_size" toml:"max_file_size"`    // Rotation threshold in bytes
	MaxFiles      int           `mapstructure:"max_files" json:"max_files" toml:"max_files"`                // Archives kept after rotation
	LogFormat     string        `mapstructure:"log_format" json:"log_format" toml:"log_format"`             // text, json, structured
	DateFormat    string        `mapstructure:"date_format" json:"date_format" toml:"date_format"`          // Go time layout; empty means RFC3339
	Colorize      *bool         `mapstructure:"colorize" json:"colorize" toml:"colorize"`                   // Style console level tags
	PrettyPrint   *bool         `mapstructure:"pretty_print" json:"pretty_print" toml:"pretty_print"`       // Indent metadata folded into console lines
	Async         *bool         `mapstructure:"async" json:"async" toml:"async"`                            // Buffer file writes; false appends synchronously
	BufferSize    int           `mapstructure:"buffer_size" json:"buffer_size" toml:"buffer_size"`          // Lines queued before a forced flush
	FlushInterval time.Duration `mapstructure:"flush_interval" json:"flush_interval" toml:"flush_interval"` // Timer-driven flush period
	Environment   string        `mapstructure:"environment" json:"environment" toml:"environment"`          // Carried on every entry

	// Formatter overrides the built-in console and file renderings
	// identically when set.
	Formatter Formatter `mapstructure:"-" json:"-" toml:"-"`
	// ErrorHandler receives single-line diagnostics for file I/O and
	// serialization failures. Defaults to a one-line stderr warning.
	ErrorHandler func(error) `mapstructure:"-" json:"-" toml:"-"`
}

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() *Config {
	return &Config{
		MinLevel:      LevelInfo,
		Mode:          ModeNormal,
		MaxFileSize:   10 * 1024 * 1024,
		MaxFiles:      5,
		LogFormat:     FormatText,
		Colorize:      Bool(stdoutIsTerminal()),
		PrettyPrint:   Bool(false),
		Async:         Bool(true),
		BufferSize:    64,
		FlushInterval: time.Second,
	}
}

// Bool returns a pointer to v, for setting the boolean Config options.
func Bool(v bool) *bool {
	return &v
}

// Resolved boolean options. A merged config always carries non-nil pointers;
// the nil checks cover hand-built configs passed straight to the formatter.

func (c *Config) colorize() bool    { return c.Colorize != nil && *c.Colorize }
func (c *Config) prettyPrint() bool { return c.PrettyPrint != nil && *c.PrettyPrint }
func (c *Config) async() bool       { return c.Async != nil && *c.Async }

// getConfigValue returns defaultVal if cfgVal equals the zero value for type
// T, otherwise returns cfgVal. Used for merging configuration values with
// their defaults or prior values.
func getConfigValue[T comparable](defaultVal, cfgVal T) T {
	var zero T
	if cfgVal == zero {
		return defaultVal
	}
	return cfgVal
}

// mergeBool overlays a boolean option, keeping the base pointer when the
// override leaves it unset. A set override is copied so merged configs never
// alias the caller's pointer.
func mergeBool(base, override *bool) *bool {
	if override == nil {
		return base
	}
	v := *override
	return &v
}

// mergeConfig overlays override onto base. Zero values and nil boolean
// pointers in override keep the base value.
func mergeConfig(base Config, override *Config) Config {
	merged := Config{
		Levels:        base.Levels,
		MinLevel:      getConfigValue(base.MinLevel, override.MinLevel),
		Mode:          getConfigValue(base.Mode, override.Mode),
		LogFile:       getConfigValue(base.LogFile, override.LogFile),
		MaxFileSize:   getConfigValue(base.MaxFileSize, override.MaxFileSize),
		MaxFiles:      getConfigValue(base.MaxFiles, override.MaxFiles),
		LogFormat:     getConfigValue(base.LogFormat, override.LogFormat),
		DateFormat:    getConfigValue(base.DateFormat, override.DateFormat),
		Colorize:      mergeBool(base.Colorize, override.Colorize),
		PrettyPrint:   mergeBool(base.PrettyPrint, override.PrettyPrint),
		Async:         mergeBool(base.Async, override.Async),
		BufferSize:    getConfigValue(base.BufferSize, override.BufferSize),
		FlushInterval: getConfigValue(base.FlushInterval, override.FlushInterval),
		Environment:   getConfigValue(base.Environment, override.Environment),
		Formatter:     base.Formatter,
		ErrorHandler:  base.ErrorHandler,
	}
	if len(override.Levels) > 0 {
		merged.Levels = append([]Level(nil), override.Levels...)
	}
	if override.Formatter != nil {
		merged.Formatter = override.Formatter
	}
	if override.ErrorHandler != nil {
		merged.ErrorHandler = override.ErrorHandler
	}
	return merged
}

// sanitize validates cfg in place, falling back to the prior value for each
// rejected option. Rejections are reported on the side error channel, never
// raised.
func (c *Config) sanitize(prior *Config, report func(error)) {
	reject := func(option string, value any) {
		report(&ConfigError{Option: option, Value: value})
	}

	if c.MaxFileSize <= 0 {
		reject("max_file_size", c.MaxFileSize)
		c.MaxFileSize = prior.MaxFileSize
	}
	if c.MaxFiles <= 0 {
		reject("max_files", c.MaxFiles)
		c.MaxFiles = prior.MaxFiles
	}
	if c.BufferSize <= 0 {
		reject("buffer_size", c.BufferSize)
		c.BufferSize = prior.BufferSize
	}
	if c.FlushInterval <= 0 {
		reject("flush_interval", c.FlushInterval)
		c.FlushInterval = prior.FlushInterval
	}
	if !validLevel(c.MinLevel) {
		reject("min_level", c.MinLevel)
		c.MinLevel = prior.MinLevel
	}
	if !validMode(c.Mode) {
		reject("mode", c.Mode)
		c.Mode = prior.Mode
	}
	switch c.LogFormat {
	case FormatText, FormatJSON, FormatStructured:
	default:
		reject("log_format", c.LogFormat)
		c.LogFormat = prior.LogFormat
	}
	for _, l := range c.Levels {
		if !validLevel(l) {
			reject("levels", l)
			c.Levels = prior.Levels
			break
		}
	}
}

// LoadFile reads a Config from a JSON, YAML, or TOML file. Level names and
// duration strings ("500ms") are decoded via hooks. The result is merged
// and validated when passed to New or SetConfig.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		levelDecodeHook,
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	return cfg, nil
}

// levelDecodeHook converts level names in config files to Level constants.
func levelDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(Level(0)) {
		return ParseLevel(data.(string))
	}
	return data, nil
}
