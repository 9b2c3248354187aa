// File path: internal/cli/cmd_session.go
package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/famnet/famapi/internal/telegram"
)

func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Telegram session management",
		Example: "  famapi session generate --file session.json\n" +
			"  famapi session test",
	}
	cmd.AddCommand(
		newSessionGenerateCommand(),
		newSessionTestCommand(),
	)
	return cmd
}

func newSessionGenerateCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Log in interactively and persist a session file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := telegram.LoadConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(file) != "" {
				cfg.SessionFile = file
			}
			if strings.TrimSpace(cfg.SessionFile) == "" {
				cfg.SessionFile = "session.json"
			}
			reader := bufio.NewReader(cmd.InOrStdin())
			prompt := func(label string) (string, error) {
				fmt.Fprintf(cmd.OutOrStdout(), "Enter %s: ", label)
				line, err := reader.ReadString('\n')
				if err != nil {
					return "", err
				}
				return strings.TrimSpace(line), nil
			}
			return telegram.GenerateSession(cmd.Context(), cfg, cmd.OutOrStdout(), prompt)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "session file to write (defaults to TELEGRAM_SESSION_FILE or session.json)")
	return cmd
}

func newSessionTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Verify that the stored session still works",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := telegram.LoadConfig()
			if err != nil {
				return err
			}
			return telegram.TestSession(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}
