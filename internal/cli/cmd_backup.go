// File path: internal/cli/cmd_backup.go
package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/famnet/famapi/internal/backup"
	"github.com/famnet/famapi/internal/store"
)

func newBackupCommand() *cobra.Command {
	var (
		bucket string
		prefix string
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the fam_records table to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			storeCfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(storeCfg.DatabaseURL) == "" {
				return errors.New("FAM_DATABASE_URL required for backup")
			}
			st, err := store.OpenWithConfig(cmd.Context(), storeCfg)
			if err != nil {
				return err
			}
			defer st.Close()

			cfg := backup.LoadConfig()
			if strings.TrimSpace(bucket) != "" {
				cfg.Bucket = bucket
			}
			if strings.TrimSpace(prefix) != "" {
				cfg.Prefix = prefix
			}
			uploader, err := backup.NewS3Uploader(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			keys, err := backup.Run(cmd.Context(), st, uploader, cfg.Prefix, time.Now())
			if err != nil {
				return err
			}
			for _, key := range keys {
				cmd.Printf("Uploaded s3://%s/%s\n", cfg.Bucket, key)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (defaults to S3_BUCKET_NAME)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix for snapshots (defaults to backups)")
	return cmd
}
