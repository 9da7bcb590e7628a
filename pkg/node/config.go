package node

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ConfigTypeError reports a configuration input of an unsupported type.
type ConfigTypeError struct {
	Value any
}

func (e *ConfigTypeError) Error() string {
	return fmt.Sprintf("unsupported configuration data type %T", e.Value)
}

// ConfigParseError reports malformed JSON configuration data.
type ConfigParseError struct {
	Source string
	Err    error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("parse configuration %s: %v", e.Source, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// NormalizeConfig turns the -C/--config input into a configuration mapping.
// Accepted forms: nil or an empty path (no configuration, empty mapping), an
// in-memory mapping (passed through unchanged), an open reader (parsed as
// JSON), or a path string (opened then parsed as JSON). Anything else fails
// with a ConfigTypeError; malformed JSON fails with a ConfigParseError.
func NormalizeConfig(v any) (map[string]any, error) {
	switch cfg := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return cfg, nil
	case io.Reader:
		return parseConfig(cfg, "stream")
	case string:
		if cfg == "" {
			return map[string]any{}, nil
		}
		f, err := os.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open configuration: %w", err)
		}
		defer f.Close()
		return parseConfig(f, cfg)
	default:
		return nil, &ConfigTypeError{Value: v}
	}
}

func parseConfig(r io.Reader, source string) (map[string]any, error) {
	var cfg map[string]any
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, &ConfigParseError{Source: source, Err: err}
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return cfg, nil
}
