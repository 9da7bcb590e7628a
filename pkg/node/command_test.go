package node

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flagNode struct {
	recordingNode
	port string
}

func (n *flagNode) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&n.port, "port", "/dev/ttyUSB0", "serial port device")
}

func TestCommandCarriesRecognizedFlags(t *testing.T) {
	cmd := Command("Demo", &recordingNode{})

	for _, name := range []string{"name", "config", "logger-config", "verbose", "debug"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, "n", cmd.Flags().Lookup("name").Shorthand)
	assert.Equal(t, "C", cmd.Flags().Lookup("config").Shorthand)
}

func TestCommandIncludesContributedFlags(t *testing.T) {
	impl := &flagNode{}
	cmd := Command("Demo", impl)

	flag := cmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "/dev/ttyUSB0", flag.DefValue)
}

func TestCommandRejectsUnknownFlags(t *testing.T) {
	cmd := Command("Demo", &recordingNode{})
	cmd.SetArgs([]string{"--no-such-flag"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	assert.Error(t, err, "parse failures must fail fast before any state is entered")
}

func TestCommandRejectsPositionalArgs(t *testing.T) {
	cmd := Command("Demo", &recordingNode{})
	cmd.SetArgs([]string{"unexpected"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}
