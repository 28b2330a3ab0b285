package main

import (
	"context"

	"github.com/spf13/cobra"

	"nac-advisor/internal/bootstrap"
	"nac-advisor/internal/decisions"
	"nac-advisor/internal/shared/config"
)

func newAnalyzeCmd(cfg config.Config) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a decision context (JSON) against the resource library",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := analyzeInput(cmd, cfg, input)
			if err != nil {
				return err
			}
			return writeJSON(cmd, path)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "decision context JSON file, - for stdin")
	return cmd
}

func newChecklistCmd(cfg config.Config) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Analyze a decision context and print the implementation checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			var dc decisions.DecisionContext
			if err := decodeJSONInput(cmd, input, &dc); err != nil {
				return err
			}
			path, err := analyze(cmd.Context(), cfg, dc)
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]any{"phases": decisions.BuildChecklist(dc, path.Recommendations)})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "decision context JSON file, - for stdin")
	return cmd
}

func analyzeInput(cmd *cobra.Command, cfg config.Config, input string) (decisions.DecisionPath, error) {
	var dc decisions.DecisionContext
	if err := decodeJSONInput(cmd, input, &dc); err != nil {
		return decisions.DecisionPath{}, err
	}
	return analyze(cmd.Context(), cfg, dc)
}

func analyze(ctx context.Context, cfg config.Config, dc decisions.DecisionContext) (decisions.DecisionPath, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := bootstrap.BuildStore(ctx, cfg)
	if err != nil {
		return decisions.DecisionPath{}, err
	}
	sqlDB, err := openLibraryDB(ctx, cfg)
	if err != nil {
		return decisions.DecisionPath{}, err
	}
	if sqlDB != nil {
		defer sqlDB.Close()
	}
	reader, err := bootstrap.BuildLibrary(cfg, sqlDB, store)
	if err != nil {
		return decisions.DecisionPath{}, err
	}
	return decisions.NewEngine(reader).AnalyzeContext(ctx, dc)
}
