package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/abhisek/ethiq/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the questionnaire as a web form",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
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

		opts := web.Options{
			Bank:           bank,
			Evaluations:    st.EvaluationRepo(),
			Secret:         []byte(cfg.Server.SessionSecret),
			SessionTTL:     cfg.Server.SessionTTL,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			SecureCookies:  cfg.Server.SecureCookies,
		}
		if c := newCommentator(ctx, cfg, bank, st.EventRepo()); c != nil {
			opts.Commentator = c
		}
		srv, err := web.New(opts)
		if err != nil {
			return fmt.Errorf("create web server: %w", err)
		}

		log.Printf("ethiq listening on %s", cfg.Server.Addr)
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
