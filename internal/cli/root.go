package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"stocktrack/internal/api"
	"stocktrack/internal/config"
	"stocktrack/internal/dashboard"
	"stocktrack/internal/format"
	"stocktrack/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	EnvFile    string
	PrettyJSON bool

	cfg    *config.Config
	logger *log.Logger
	logOut io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "stocktrack",
		Short:        "Inventory dashboard (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  stocktrack

  # Scriptable commands
  stocktrack items list --format table
  stocktrack items search bolt
  stocktrack items create --name Bolt --sku B-1 --quantity 10

  # Run the reference record store
  stocktrack serve --driver sqlite --dsn ./stocktrack.sqlite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigDir, "config-dir", envOr("STOCKTRACK_CONFIG_DIR", ""), "Config directory (default ~/.stocktrack)")
	pf.StringVar(&app.EnvFile, "env-file", ".env", "Dotenv file loaded before config")
	pf.String("server", "", "Record store base URL (default http://localhost:8080/api/v1)")
	pf.String("format", "", "Output format (json|edn|table)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	pf.String("log-file", "", "Append client logs to this file")
	pf.Duration("debounce", 0, "Search debounce delay (default 300ms)")
	pf.Duration("request-timeout", 0, "Per-request timeout (default 10s)")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

func (app *App) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{
		Dir:     app.ConfigDir,
		EnvFile: app.EnvFile,
		Flags:   cmd.Flags(),
	})
	if err != nil {
		return err
	}
	app.cfg = cfg

	app.logger = log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "stocktrack")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		app.logOut = f
		app.logger = log.New(f, "stocktrack ", log.LstdFlags|log.Lmicroseconds)
	}
	return nil
}

func (app *App) close() error {
	if app.logOut == nil {
		return nil
	}
	err := app.logOut.Close()
	app.logOut = nil
	return err
}

func (app *App) client() *api.Client {
	return api.New(api.Options{
		BaseURL: app.cfg.ServerURL,
		Timeout: app.cfg.RequestTimeout,
		Logger:  app.logger,
	})
}

func (app *App) requestTimeout() time.Duration {
	if app.cfg == nil || app.cfg.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return app.cfg.RequestTimeout
}

func runTUI(app *App) error {
	defer app.close()
	return tui.Run(dashboard.Options{
		Transport:      app.client(),
		Debounce:       app.cfg.Debounce,
		RequestTimeout: app.cfg.RequestTimeout,
		Logger:         app.logger,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints v in the configured format. json and edn wrap it in a
// {"data": ...} envelope; table prints rows directly.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	f := app.cfg.Format
	if f == "table" {
		return format.Write(cmd.OutOrStdout(), v, f, app.PrettyJSON)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, f, app.PrettyJSON)
}
