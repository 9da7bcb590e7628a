package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Log directories. Privileged processes log system-wide, everything else
// under the invoking user's home.
const (
	systemLogDir  = "/var/log/nros"
	userLogSubdir = ".nros/log"
	logExtension  = ".log"
)

// Swappable for tests, following the package-level hook pattern used
// throughout the codebase.
var (
	geteuid     = os.Geteuid
	userHomeDir = os.UserHomeDir
)

// ConfigParseError reports a malformed logger configuration override file.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("parse logger configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// DeepMerge recursively merges override into base and returns base. When the
// values on both sides of a key are mappings they are merged in place;
// anything else in override replaces the base value wholesale (arrays are
// not concatenated). base is mutated; override never is, though its nested
// values end up shared with the result.
func DeepMerge(base, override map[string]any) map[string]any {
	for key, value := range override {
		if baseChild, ok := base[key].(map[string]any); ok {
			if overrideChild, ok := value.(map[string]any); ok {
				DeepMerge(baseChild, overrideChild)
				continue
			}
		}
		base[key] = value
	}
	return base
}

// DefaultConfig builds the default logging configuration with the resolved
// log file path injected, ready for user overrides to be merged on top.
func DefaultConfig(logPath string) map[string]any {
	return map[string]any{
		"level": "info",
		"handlers": map[string]any{
			"file": map[string]any{
				"filename": logPath,
			},
		},
	}
}

// BuildConfig loads the JSON override file at overridePath, if given, and
// deep-merges it over defaults. The merged mapping is ready to hand to Init.
func BuildConfig(defaults map[string]any, overridePath string) (map[string]any, error) {
	if overridePath == "" {
		return defaults, nil
	}
	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("read logger configuration: %w", err)
	}
	var override map[string]any
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, &ConfigParseError{Path: overridePath, Err: err}
	}
	return DeepMerge(defaults, override), nil
}

// ResolveLogPath determines the log file path for the invoking program and
// creates the containing directory if needed. Root logs under /var/log/nros,
// everyone else under ~/.nros/log; the file name is the program's base name
// with a .log extension.
func ResolveLogPath(execPath string) (string, error) {
	dir, err := logDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory %s: %w", dir, err)
	}
	base := filepath.Base(execPath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + logExtension
	return filepath.Join(dir, name), nil
}

func logDir() (string, error) {
	if geteuid() == 0 {
		return systemLogDir, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user log directory: %w", err)
	}
	return filepath.Join(home, userLogSubdir), nil
}
