package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/engagectl/internal/messages"
)

// newRootCmd builds the root command and wires the subcommands.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newApplyCmd())
	return cmd
}
