package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/analysis"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/config"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/ingestion"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/observability"
	"github.com/SaiPavan214/Flight-Schedule-Optimizer/pkg/models"
)

var (
	cfgFile  string
	dataPath string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "cascade",
	Short:         "Flight delay-cascade analyzer",
	Long:          "Analyzes historical flight operations for delay propagation, cascading impact, congestion windows and schedule-shift opportunities.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	rootCmd.AddCommand(
		newRankCmd(),
		newOptimalCmd(),
		newSlotsCmd(),
		newCapacityCmd(),
		newSimulateCmd(),
		newClustersCmd(),
		newCascadesCmd(),
	)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "flight_data.csv", "path to the flight operations CSV")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logger level (debug, info, warn, error)")
}

// initConfig loads defaults, an optional config file, and CASCADE_* env vars.
func initConfig() (config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CASCADE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	return cfg, nil
}

// setup builds the service, loads the dataset, and hands both to the command.
func setup() (*analysis.Service, []models.FlightRecord, *zap.Logger, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	svc, err := analysis.New(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	loader := ingestion.NewLoader(
		ingestion.WithLogger(logger),
		ingestion.WithSearchPaths("data", "datasets"),
	)
	records, err := loader.Load(dataPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, records, logger, nil
}

// writeJSON prints a result to stdout. Logs go to stderr, so stdout stays
// pipeable.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
