package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-brief/internal/model"
	"github.com/sells-group/company-brief/internal/research"
	anthropicpkg "github.com/sells-group/company-brief/pkg/anthropic"
	"github.com/sells-group/company-brief/pkg/serp"
)

var (
	runName    string
	runWebsite string
	runFirmCRD string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a brief for a single company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate(); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		serpClient := serp.NewClient(cfg.Serp.Key,
			serp.WithBaseURL(cfg.Serp.BaseURL),
			serp.WithEngine(cfg.Serp.Engine),
		)
		anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

		p := research.New(cfg, st, serpClient, anthropicClient)

		brief, err := p.Run(ctx, model.ResearchRequest{
			CompanyName: runName,
			Website:     runWebsite,
			FirmCRD:     runFirmCRD,
		})
		if err != nil {
			return eris.Wrap(err, "research run")
		}

		zap.L().Info("brief complete",
			zap.String("company", brief.CompanyName),
			zap.Int("urls_used", len(brief.URLsUsed)),
			zap.Bool("degraded", brief.Degraded),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(brief)
	},
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", "", "company name (required)")
	runCmd.Flags().StringVar(&runWebsite, "website", "", "company website (required)")
	runCmd.Flags().StringVar(&runFirmCRD, "firm-crd", "", "firm CRD number")
	_ = runCmd.MarkFlagRequired("name")
	_ = runCmd.MarkFlagRequired("website")
	rootCmd.AddCommand(runCmd)
}
