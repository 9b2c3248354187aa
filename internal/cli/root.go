// File path: internal/cli/root.go

// Package cli assembles the famapi command tree.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

// NewRootCommand builds the famapi CLI.
func NewRootCommand(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "famapi",
		Short:         "Telegram FAM lookup service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.AddCommand(
		newServeCommand(),
		newSetupCommand(),
		newSessionCommand(),
		newBackupCommand(),
		newVersionCommand(),
	)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the famapi version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "famapi %s\n", Version)
			return err
		},
	}
}
