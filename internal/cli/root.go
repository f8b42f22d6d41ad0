package cli

import (
	"context"

	"salaryinsights/internal/ai"
	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
	"salaryinsights/internal/flows"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "salaryinsights",
	Short: "AI salary estimates, cover letters and skill suggestions",
	Long: `Salary Insights estimates the salary range for a job profile using AI.
It can also draft a cover letter for the role and suggest skills that would
raise the candidate's market value. Run "serve" for the web interface.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newFlows connects the configured AI services for a one-shot command.
// The returned close function releases the providers.
func newFlows(cfg *config.Config, logger *errors.Logger) (*flows.Flows, func(), error) {
	services, err := ai.NewServices(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := flows.New(flows.FromServices(services), flows.Options{
		Prompts:          cfg.Prompts(),
		UseSystemPrompts: cfg.AI.UseSystemPrompts,
	}, logger)

	return f, func() {
		if err := services.Close(); err != nil {
			logger.LogError(err, "Failed to close AI services")
		}
	}, nil
}

func init() {
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(coverLetterCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
