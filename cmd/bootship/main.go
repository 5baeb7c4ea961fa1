// Command bootship serves a Bootship site and manages its content store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/bootship"
)

// version is set at build time via ldflags.
var version = "dev"

var dbPath string

var rootCmd = &cobra.Command{
	Use:           "bootship",
	Short:         "Bootship site server",
	Long:          `Serves a site rendered through the Bootship theme and manages its SQLite store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	rootCmd.AddCommand(serveCmd, versionCmd, optionCmd, userCmd, widgetCmd, menuCmd, thumbnailsCmd)
}

// loadConfig reads the environment and applies the --db override.
func loadConfig() (bootship.SiteConfig, error) {
	cfg, err := bootship.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	return cfg, nil
}

// openApp opens the store without starting the server.
func openApp() (*bootship.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	app := bootship.New(cfg)
	store, err := bootship.NewStore(app.Config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	app.Store = store
	return app, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app := bootship.New(cfg)
		defer app.Close()
		return app.Start()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bootship version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bootship %s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
