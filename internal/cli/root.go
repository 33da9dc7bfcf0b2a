// Package cli implements the supportctl command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/bootstrap"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/observability"
)

type configLoader func() (*config.Config, error)

type runtime struct {
	loadConfig configLoader
	logLevel   string
}

func newRootCmd(load configLoader) *cobra.Command {
	rt := &runtime{loadConfig: load}

	cmd := &cobra.Command{
		Use:           "supportctl",
		Short:         "Operate the support chat engine from a terminal",
		Long:          "supportctl runs local chat sessions against the support engine and manages the tickets it raises.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&rt.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newChatCmd(rt))
	cmd.AddCommand(newTicketsCmd(rt))
	cmd.AddCommand(newHashPasswordCmd())
	return cmd
}

// Execute runs the root command with configuration from the environment.
func Execute() error {
	return newRootCmd(config.Load).Execute()
}

// open loads configuration and wires the engine. Callers must Close the result.
func (rt *runtime) open(ctx context.Context) (*bootstrap.Components, *zap.Logger, error) {
	cfg, err := rt.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if rt.logLevel != "" {
		cfg.Logger.Level = rt.logLevel
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return components, logger, nil
}
