package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"nac-advisor/internal/bootstrap"
	"nac-advisor/internal/llm"
	"nac-advisor/internal/shared/config"
)

func newCompleteCmd(cfg config.Config) *cobra.Command {
	var (
		req         llm.Request
		temperature float64
		maxTokens   int
	)
	cmd := &cobra.Command{
		Use:   "complete [prompt]",
		Short: "Send a prompt through the AI gateway",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.Prompt = args[0]
			}
			if strings.TrimSpace(req.Prompt) == "" {
				return errors.New("prompt is required")
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				req.MaxTokens = &maxTokens
			}

			gateway, err := bootstrap.BuildGateway(cfg, nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			resp, err := gateway.Complete(ctx, req)
			if err != nil {
				return err
			}
			return writeJSON(cmd, resp)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&req.Prompt, "prompt", "p", "", "prompt text")
	flags.StringVar(&req.Context, "context", "", "context appended to the system instruction")
	flags.StringVarP(&req.TaskType, "task", "t", "", "task type: recommendation, checklist, vendor_comparison, compliance")
	flags.StringVar(&req.Provider, "provider", "", "provider id, defaults to AI_DEFAULT_PROVIDER")
	flags.StringVarP(&req.Model, "model", "m", "", "model, defaults to the provider default")
	flags.StringVar(&req.ReasoningEffort, "reasoning-effort", "", "reasoning effort for reasoning models")
	flags.StringVar(&req.Verbosity, "verbosity", "", "output verbosity for reasoning models")
	flags.BoolVar(&req.EnableFallback, "fallback", false, "fall back to other providers on failure")
	flags.Float64Var(&temperature, "temperature", 0, "sampling temperature")
	flags.IntVar(&maxTokens, "max-tokens", 0, "maximum completion tokens")
	return cmd
}
