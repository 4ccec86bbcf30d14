package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	root := &RootCommand{
		opts: NewOutputOptions(),
	}

	cmd := NewVersionCommand(root)
	assert.NotNil(t, cmd)
	assert.Equal(t, "version", cmd.Use)
}

func TestPrintVersion_Table(t *testing.T) {
	buf := &bytes.Buffer{}
	opts := &OutputOptions{
		Format: OutputTable,
		Writer: buf,
	}

	require.NoError(t, printVersion(opts))

	output := buf.String()
	assert.Contains(t, output, "modelrun version")
	assert.Contains(t, output, "Commit:")
}

func TestPrintVersion_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	opts := &OutputOptions{
		Format: OutputJSON,
		Writer: buf,
	}

	require.NoError(t, printVersion(opts))

	output := buf.String()
	assert.Contains(t, output, `"version"`)
	assert.Contains(t, output, `"buildDate"`)
	assert.Contains(t, output, `"gitCommit"`)
}

func TestPrintVersion_YAML(t *testing.T) {
	buf := &bytes.Buffer{}
	opts := &OutputOptions{
		Format: OutputYAML,
		Writer: buf,
	}

	require.NoError(t, printVersion(opts))
	assert.Contains(t, buf.String(), "version:")
}

func TestPrintVersion_Quiet(t *testing.T) {
	buf := &bytes.Buffer{}
	opts := &OutputOptions{
		Format: OutputTable,
		Quiet:  true,
		Writer: buf,
	}

	require.NoError(t, printVersion(opts))
	assert.Empty(t, buf.String())
}

func TestVersionCommand_Execute(t *testing.T) {
	out, _, err := runCLI(t, "version", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"goVersion"`)
}
