// File path: internal/cli/cmd_serve.go
package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/famnet/famapi/internal/api"
	"github.com/famnet/famapi/internal/common"
	"github.com/famnet/famapi/internal/store"
	"github.com/famnet/famapi/internal/telegram"
)

func newServeCommand() *cobra.Command {
	var (
		addr          string
		lookupTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the FAM lookup HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := common.Logger()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := api.DefaultConfig()
			if trimmed := strings.TrimSpace(addr); trimmed != "" {
				cfg.Addr = trimmed
			} else if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
				cfg.Addr = ":" + port
			}
			if lookupTimeout > 0 {
				cfg.LookupTimeout = lookupTimeout
			}

			var recordStore api.RecordStore
			storeCfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(storeCfg.DatabaseURL) == "" {
				logger.Warn("serve: no database configured, lookups will not be persisted")
			} else {
				st, err := store.OpenWithConfig(ctx, storeCfg)
				if err != nil {
					return err
				}
				defer st.Close()
				recordStore = st
				logger.Info("serve: record store ready")
			}

			var bot api.Bot
			tgCfg, err := telegram.LoadConfig()
			if err != nil {
				return err
			}
			client, err := telegram.New(tgCfg)
			if err != nil {
				logger.Warn("serve: telegram client unavailable", "error", err)
			} else {
				bot = client
				go func() {
					if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("serve: telegram client stopped", "error", err)
					}
				}()
				readyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				if err := client.WaitReady(readyCtx); err != nil {
					logger.Warn("serve: telegram client not ready yet", "error", err)
				}
				cancel()
			}

			server := api.NewServer(recordStore, bot, &cfg)
			httpServer := &http.Server{Addr: cfg.Addr, Handler: server}
			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.ListenAndServe()
			}()
			logger.Info("serve: listening", "addr", cfg.Addr, "health", "/healthz")

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return err
				}
				logger.Info("serve: shut down")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to PORT env or :10000)")
	cmd.Flags().DurationVar(&lookupTimeout, "lookup-timeout", 0, "per-request lookup deadline")
	return cmd
}
