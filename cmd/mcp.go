package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/ethiq/internal/mcpserver"
	"github.com/abhisek/ethiq/internal/store"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the question bank and scoring tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		noSave, _ := cmd.Flags().GetBool("no-save")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bank, err := loadBank(cfg)
		if err != nil {
			return err
		}

		var evaluations store.EvaluationRepo
		if !noSave {
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			evaluations = st.EvaluationRepo()
		}

		return mcpserver.Serve(mcpserver.New(buildVersion(), bank, evaluations))
	},
}

func init() {
	mcpCmd.Flags().Bool("no-save", false, "Do not store evaluations scored through MCP")
}
