package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the reflow CLI's command tree: `run` and `version`.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "reflow",
		Short: "Manufacturing reflow scheduling engine",
		Long:  "reflow reschedules work orders across work centers honoring shift calendars, maintenance windows, and dependencies.",
	}
	root.AddCommand(NewRunCommand())
	root.AddCommand(NewVersionCommand())
	return root
}
