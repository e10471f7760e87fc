package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored evaluations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored evaluations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		role, _ := cmd.Flags().GetString("role")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		evs, err := st.EvaluationRepo().List(cmd.Context(), store.QueryOpts{Limit: limit, Role: role})
		if err != nil {
			return fmt.Errorf("list evaluations: %w", err)
		}
		printEvaluations(cmd.OutOrStdout(), evs)
		return nil
	},
}

func printEvaluations(w io.Writer, evs []store.EvaluationSummary) {
	if len(evs) == 0 {
		fmt.Fprintln(w, "No evaluations found.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-16s  %-24s  %-20s  %7s  %s\n",
		"ID", "Completed", "Name", "Role", "Average", "Recommendation")
	fmt.Fprintln(w, strings.Repeat("─", 130))
	for _, e := range evs {
		fmt.Fprintf(w, "%-36s  %-16s  %-24s  %-20s  %7.2f  %s\n",
			e.ID,
			e.CompletedAt.Local().Format("2006-01-02 15:04"),
			truncate(e.Identity.Name, 24),
			truncate(e.Identity.Role, 20),
			e.Aggregate,
			e.Recommendation.Text(),
		)
	}
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a stored evaluation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath, _ := cmd.Flags().GetString("pdf")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		stored, err := st.EvaluationRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get evaluation: %w", err)
		}
		if stored == nil {
			return fmt.Errorf("evaluation %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		ev := stored.Evaluation
		fmt.Fprintf(out, "ID:        %s\n", ev.ID)
		fmt.Fprintf(out, "Started:   %s\n", ev.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Completed: %s\n\n", ev.CompletedAt.Local().Format("2006-01-02 15:04:05"))
		if err := report.WriteText(out, ev); err != nil {
			return err
		}
		if c := stored.Commentary; !c.Empty() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Assessor Notes:")
			fmt.Fprintln(out, " ", c.Summary)
			for _, s := range c.Strengths {
				fmt.Fprintln(out, "  + "+s)
			}
			for _, d := range c.DevelopmentAreas {
				fmt.Fprintln(out, "  - "+d)
			}
		}
		return writePDF(out, pdfPath, ev, stored.Commentary)
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent evaluations",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.EvaluationRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return fmt.Errorf("prune evaluations: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d evaluation(s).\n", n)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of evaluations to show")
	historyListCmd.Flags().String("role", "", "Only show evaluations for this role")
	historyViewCmd.Flags().String("pdf", "", "Also write the PDF report to this path")
	historyPruneCmd.Flags().Int("keep", 100, "Number of recent evaluations to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
