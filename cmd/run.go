package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/ethiq/internal/app"
	"github.com/abhisek/ethiq/internal/screen"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the interactive questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bank, err := loadBank(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	env := &screen.Env{
		Bank:        bank,
		Evaluations: st.EvaluationRepo(),
		ReportDir:   cfg.Report.OutputDir,
	}
	if c := newCommentator(ctx, cfg, bank, st.EventRepo()); c != nil {
		env.Commentator = c
	}
	return app.Run(ctx, env)
}
