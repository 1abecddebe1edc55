package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"rental-backend/internal/config"
	"rental-backend/internal/db"
	"rental-backend/internal/logger"
	"rental-backend/internal/timeutil"
)

var (
	// Global flags
	configPath string
	dbURL      string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rentalctl",
	Short: "Operator tooling for the rental backend",
	Long: `rentalctl runs maintenance tasks against the rental database:
schema migrations, agreement template management, dashboard statistics
and bootstrap admin accounts.

Configuration is read the same way as the API server (config file, .env,
environment). --db overrides the database URL.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// loadConfig reads the configuration and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return nil, err
	}
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}
	logger.Setup(cfg.Log.Level, "console")
	if err := timeutil.SetLocation(cfg.App.Timezone); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connect opens a pool for the duration of one command
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
