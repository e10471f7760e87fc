package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/ethiq/internal/assessor"
	"github.com/abhisek/ethiq/internal/config"
	"github.com/abhisek/ethiq/internal/llm"
	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "ethiq",
	Short: "Behaviour and work ethics screening",
	Long: "ethiq runs a fixed multiple-choice questionnaire on behaviour and work ethics, " +
		"scores it and recommends whether a candidate should proceed to the next round.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides ETHIQ_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ETHIQ_DB env var)")
	rootCmd.PersistentFlags().String("bank", "", "Path to a custom question bank (YAML or JSON)")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies --bank and --db on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if b, _ := cmd.Flags().GetString("bank"); b != "" {
		cfg.Bank = b
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Database.Driver = store.DriverSQLite
		cfg.Database.DSN = db
	}
	return cfg, nil
}

// loadBank loads the configured bank, warning about dimensions that more
// than one question shares.
func loadBank(cfg config.Config) (*questionbank.Bank, error) {
	bank, err := questionbank.Load(cfg.Bank)
	if err != nil {
		return nil, err
	}
	for _, d := range bank.SharedDimensions() {
		fmt.Fprintf(os.Stderr, "warning: dimension %q is shared by several questions; only the last one is reported\n", d)
	}
	return bank, nil
}

// openStore opens the history database. An empty SQLite DSN resolves to
// the default data path.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	dsn := cfg.Database.DSN
	if cfg.Database.Driver == store.DriverSQLite || cfg.Database.Driver == "" {
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			dsn = p
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	s, err := store.Open(ctx, cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// newCommentator returns nil when commentary is disabled or no LLM
// provider is configured.
func newCommentator(ctx context.Context, cfg config.Config, bank *questionbank.Bank, events store.EventRepo) *assessor.Commentator {
	if !cfg.Assessor.Enabled {
		return nil
	}
	provider, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Assessor notes will be unavailable.")
		return nil
	}
	if provider == nil {
		return nil
	}
	return assessor.New(provider, bank, assessor.DefaultConfig())
}
