// Package cmd implements the fiscus-ingest CLI commands.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/fiscus-ingest/internal/api/client"
	"github.com/donaldgifford/fiscus-ingest/internal/config"
	"github.com/donaldgifford/fiscus-ingest/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "fiscus-ingest",
	Short: "Scrape and track grocery prices across retail chains",
	Long: "fiscus-ingest scrapes product listings from grocery retailers, pinned to\n" +
		"individual physical stores, and keeps a canonical catalog with price history.\n" +
		"It runs the API server, the job workers and the daily scrape schedule, and\n" +
		"doubles as a client for the API from the terminal.",
	SilenceUsage: true,
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		String("config", "config.yaml", "service config file path")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(
		serveCmd(),
		workerCmd(),
		migrateCmd(),
		scrapeCmd(),
		storesCmd(),
		tasksCmd(),
		triggerCmd(),
		compareCmd(),
		promotionsCmd(),
		versionCmd(),
	)
}

func initConfig() {
	viper.SetEnvPrefix("FISCUS")
	viper.AutomaticEnv()
}

// loadConfig reads the service config and builds the logger it describes.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format), nil
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
