package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompletionCommand(t *testing.T) {
	cmd := NewCompletionCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "completion [bash|zsh|fish|powershell]", cmd.Use)
	assert.Contains(t, cmd.Short, "completion")
}

func TestCompletionCommand_UnsupportedShell(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{
		ConfigPath:   "/tmp/nonexistent-test-config.yaml",
		OutputWriter: buf,
	})

	rootCmd.SetArgs([]string{"completion", "unsupported"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell")
}

func TestCompletionCommand_Bash(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{
		ConfigPath:   "/tmp/nonexistent-test-config.yaml",
		OutputWriter: buf,
	})

	rootCmd.SetArgs([]string{"completion", "bash"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "bash completion")
}

func TestVersionCommand(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{
		ConfigPath:   "/tmp/nonexistent-test-config.yaml",
		OutputWriter: buf,
	})

	rootCmd.SetArgs([]string{"version"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "schedctl")
	assert.Contains(t, buf.String(), "commit:")
}

func TestVersionCommand_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{
		ConfigPath:   "/tmp/nonexistent-test-config.yaml",
		OutputWriter: buf,
	})

	rootCmd.SetArgs([]string{"version", "-o", "json"})
	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"version"`)
}
