package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/ethiq/internal/questionbank"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the active question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bank, err := loadBank(cfg)
		if err != nil {
			return err
		}
		return printBank(cmd.OutOrStdout(), bank, format)
	},
}

func printBank(w io.Writer, bank *questionbank.Bank, format string) error {
	switch format {
	case "yaml":
		data, err := bank.Marshal()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(questionbank.File{Questions: bank.Questions()})
	case "text", "":
		for i, q := range bank.Questions() {
			fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, q.Dimension, q.Prompt)
			for _, o := range q.Options {
				fmt.Fprintf(w, "      %3d  %s\n", o.Value, o.Label)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}
}

func init() {
	questionsCmd.Flags().StringP("format", "f", "text", "Output format: text, yaml or json")
}
