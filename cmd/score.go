package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/ethiq/internal/assessor"
	"github.com/abhisek/ethiq/internal/questionbank"
	"github.com/abhisek/ethiq/internal/report"
	"github.com/abhisek/ethiq/internal/scoring"
	"github.com/abhisek/ethiq/internal/session"
)

// answersFile is the batch input for `ethiq score`. Answers are option
// labels in bank order; an empty string leaves a question unanswered.
type answersFile struct {
	Name    string   `yaml:"name"`
	Email   string   `yaml:"email"`
	Role    string   `yaml:"role"`
	Answers []string `yaml:"answers"`
}

func parseAnswersFile(data []byte) (answersFile, error) {
	var f answersFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, errors.New("answers file is empty")
		}
		return f, fmt.Errorf("decode answers: %w", err)
	}
	return f, nil
}

// answerSet keeps every non-empty label, including those beyond the bank
// so scoring can reject them.
func (f answersFile) answerSet() scoring.AnswerSet {
	set := scoring.AnswerSet{}
	for i, label := range f.Answers {
		if label != "" {
			set.Set(i, label)
		}
	}
	return set
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answers file and print the report",
	Example: `  ethiq score --answers answers.yaml
  ethiq score --answers answers.yaml --pdf report.pdf --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answersPath, _ := cmd.Flags().GetString("answers")
		pdfPath, _ := cmd.Flags().GetString("pdf")
		save, _ := cmd.Flags().GetBool("save")
		withCommentary, _ := cmd.Flags().GetBool("commentary")

		data, err := os.ReadFile(answersPath)
		if err != nil {
			return fmt.Errorf("read answers: %w", err)
		}
		f, err := parseAnswersFile(data)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bank, err := loadBank(cfg)
		if err != nil {
			return err
		}

		ev, err := scoreAnswers(bank, f, time.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := report.WriteText(out, ev); err != nil {
			return err
		}

		if !save && !withCommentary {
			return writePDF(out, pdfPath, ev, nil)
		}

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		var commentary *report.Commentary
		if withCommentary {
			commentary = comment(ctx, newCommentator(ctx, cfg, bank, st.EventRepo()), ev)
			if !commentary.Empty() {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Assessor Notes:")
				fmt.Fprintln(out, " ", commentary.Summary)
			}
		}
		if save {
			if err := st.EvaluationRepo().Save(ctx, ev, commentary); err != nil {
				return fmt.Errorf("save evaluation: %w", err)
			}
			fmt.Fprintf(out, "\nSaved as %s\n", ev.ID)
		}
		return writePDF(out, pdfPath, ev, commentary)
	},
}

func scoreAnswers(bank *questionbank.Bank, f answersFile, now time.Time) (*session.Evaluation, error) {
	id := session.Identity{Name: f.Name, Email: f.Email, Role: f.Role}
	return session.Evaluate(bank, id, f.answerSet(), now, now)
}

// comment runs the commentator, reporting failures as warnings.
func comment(ctx context.Context, c *assessor.Commentator, ev *session.Evaluation) *report.Commentary {
	if c == nil {
		fmt.Fprintln(os.Stderr, "warning: no LLM provider configured; skipping assessor notes")
		return nil
	}
	commentary, err := c.Comment(ctx, ev)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: assessor notes unavailable:", err)
		return nil
	}
	return commentary
}

func writePDF(out io.Writer, path string, ev *session.Evaluation, commentary *report.Commentary) error {
	if path == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, ev, commentary); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	fmt.Fprintf(out, "PDF written to %s\n", path)
	return nil
}

func init() {
	scoreCmd.Flags().String("answers", "", "YAML file with name, email, role and answers in bank order")
	scoreCmd.Flags().String("pdf", "", "Also write the PDF report to this path")
	scoreCmd.Flags().Bool("save", false, "Store the evaluation in history")
	scoreCmd.Flags().Bool("commentary", false, "Ask the configured LLM for assessor notes")
	_ = scoreCmd.MarkFlagRequired("answers")
}
