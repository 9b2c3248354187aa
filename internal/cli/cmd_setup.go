// File path: internal/cli/cmd_setup.go
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/famnet/famapi/internal/common"
	"github.com/famnet/famapi/internal/store"
)

func newSetupCommand() *cobra.Command {
	var envPath string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Scaffold the credentials file and apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := common.Logger()

			created, err := ensureEnvFile(envPath)
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("Created %s with placeholder credentials.\n", envPath)
			} else {
				cmd.Printf("%s already exists, leaving it alone.\n", envPath)
			}

			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.DatabaseURL) == "" {
				cmd.Println("No database configured yet; skipping schema setup.")
			} else {
				st, err := store.OpenWithConfig(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				logger.Info("setup: schema applied", "table", "fam_records")
				cmd.Println("Database schema applied (table fam_records, updated_at trigger).")
			}

			cmd.Println()
			cmd.Println("Next steps:")
			cmd.Printf("  1. Fill in the credentials in %s\n", envPath)
			cmd.Println("  2. Run \"famapi session generate\" to log in")
			cmd.Println("  3. Run \"famapi session test\" to verify the session")
			cmd.Println("  4. Run \"famapi serve\" to start the API")
			return nil
		},
	}
	cmd.Flags().StringVar(&envPath, "env", ".env", "path of the credentials file to scaffold")
	return cmd
}
