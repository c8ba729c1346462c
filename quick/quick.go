package quick

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Millosaurs/prettylogs"
)

// config parses configuration strings into a Config. Each argument must be
// in "key=value" format where key matches a Config toml tag.
func config(args ...string) (*prettylogs.Config, error) {
	cfg := &prettylogs.Config{}
	for _, arg := range args {
		key, value, err := parseKeyValue(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid config format: %s", arg)
		}

		if err := setValue(cfg, key, value); err != nil {
			return nil, fmt.Errorf("config error: %s", err)
		}
	}
	return cfg, nil
}

// parseKeyValue splits a configuration string into key and value parts.
// Leading and trailing spaces are removed from both.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid format")
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// setValue updates a Config field using reflection. Field matching is
// case-insensitive against the toml tags. Level, duration, and boolean
// values get dedicated parsing; other values convert by field kind.
func setValue(cfg *prettylogs.Config, key, value string) error {
	key = strings.ToLower(key)

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if tag := field.Tag.Get("toml"); tag != key || tag == "-" {
			continue
		}
		f := v.Field(i)

		switch field.Type {
		case reflect.TypeOf(prettylogs.Level(0)):
			level, err := prettylogs.ParseLevel(value)
			if err != nil {
				return err
			}
			f.Set(reflect.ValueOf(level))
			return nil

		case reflect.TypeOf([]prettylogs.Level(nil)):
			var levels []prettylogs.Level
			for _, name := range strings.Split(value, ",") {
				level, err := prettylogs.ParseLevel(name)
				if err != nil {
					return err
				}
				levels = append(levels, level)
			}
			f.Set(reflect.ValueOf(levels))
			return nil

		case reflect.TypeOf(time.Duration(0)):
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration value for %s: %s", key, value)
			}
			f.Set(reflect.ValueOf(d))
			return nil

		case reflect.TypeOf((*bool)(nil)):
			val, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid bool value for %s: %s", key, value)
			}
			f.Set(reflect.ValueOf(&val))
			return nil
		}

		switch f.Kind() {
		case reflect.String:
			f.SetString(value)

		case reflect.Int, reflect.Int64:
			val, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value for %s: %s", key, value)
			}
			f.SetInt(val)

		default:
			return fmt.Errorf("unsupported config type for %s", key)
		}
		return nil
	}
	return fmt.Errorf("unknown config key: %s", key)
}
