package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCommand(t *testing.T) {
	t.Run("Should register the run and version subcommands", func(t *testing.T) {
		root := NewRootCommand()

		names := make([]string, 0, len(root.Commands()))
		for _, c := range root.Commands() {
			names = append(names, c.Name())
		}

		assert.Contains(t, names, "run")
		assert.Contains(t, names, "version")
	})
}

func TestNewVersionCommand(t *testing.T) {
	t.Run("Should print the configured version string", func(t *testing.T) {
		cmd := NewVersionCommand()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{})

		assert.NoError(t, cmd.Execute())
		assert.Equal(t, Version+"\n", out.String())
	})
}
