package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stocktrack/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference record store (JSON API over SQLite or Postgres)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infoLog := log.New(cmd.OutOrStdout(), "INFO\t", log.Ldate|log.Ltime)
			errorLog := log.New(cmd.ErrOrStderr(), "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			sc := app.cfg.Serve
			repo, err := server.Open(ctx, sc.Driver, sc.DSN)
			if err != nil {
				errorLog.Printf("open %s store: %v", sc.Driver, err)
				return err
			}
			defer repo.Close()

			srv := server.New(repo, server.Options{InfoLog: infoLog, ErrorLog: errorLog})
			return srv.ListenAndServe(ctx, sc.Addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().String("driver", "", "Storage driver: sqlite or pgx")
	cmd.Flags().String("dsn", "", "Database DSN (sqlite path or Postgres URL; empty sqlite = in-memory)")
	return cmd
}
