package node

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeConfigNil(t *testing.T) {
	cfg, err := NormalizeConfig(nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg)
}

func TestNormalizeConfigEmptyPath(t *testing.T) {
	cfg, err := NormalizeConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestNormalizeConfigMappingPassthrough(t *testing.T) {
	in := map[string]any{"port": "/dev/ttyUSB0"}

	cfg, err := NormalizeConfig(in)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"port": "/dev/ttyUSB0"}, cfg)
}

func TestNormalizeConfigReader(t *testing.T) {
	cfg, err := NormalizeConfig(strings.NewReader(`{"rate": 19200}`))

	require.NoError(t, err)
	assert.Equal(t, float64(19200), cfg["rate"])
}

func TestNormalizeConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"device": "arm"}`), 0o644))

	cfg, err := NormalizeConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "arm", cfg["device"])
}

func TestNormalizeConfigUnsupportedType(t *testing.T) {
	_, err := NormalizeConfig(42)

	var typeErr *ConfigTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, 42, typeErr.Value)
}

func TestNormalizeConfigMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o644))

	_, err := NormalizeConfig(path)

	var parseErr *ConfigParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Source)
}

func TestNormalizeConfigMalformedReader(t *testing.T) {
	_, err := NormalizeConfig(strings.NewReader(`not json`))

	var parseErr *ConfigParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestNormalizeConfigMissingFile(t *testing.T) {
	_, err := NormalizeConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestNormalizeConfigJSONNull(t *testing.T) {
	cfg, err := NormalizeConfig(strings.NewReader(`null`))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg)
}
