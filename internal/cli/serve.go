package cli

import (
	"context"
	"fmt"
	"time"

	"salaryinsights/internal/ai"
	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
	"salaryinsights/internal/flows"
	"salaryinsights/internal/formatters"
	"salaryinsights/internal/observability"
	"salaryinsights/internal/orchestration"
	"salaryinsights/internal/server"
	"salaryinsights/internal/session"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Salary Insights web interface and JSON API",
	Long: `Start an HTTP server with the Salary Insights page and the JSON API.

Web interface:
- GET /: Job profile form, salary result, chart, career insights and cover letter
- GET /cover-letter.txt, /cover-letter.pdf: Download the generated cover letter

API endpoints:
- POST /api/v1/predict-salary: Estimate the salary range for a job profile
- POST /api/v1/cover-letter: Generate a cover letter
- POST /api/v1/suggest-skills: Suggest skills for a job description
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	registerServeFlags(serveCmd.Flags())
}

func registerServeFlags(flags *pflag.FlagSet) {
	flags.StringP("port", "p", "", "Port to listen on (default from config)")
	flags.String("host", "", "Host to bind to (default from config)")
	flags.String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	flags.String("cert-file", "", "Server certificate file (PEM, overrides config)")
	flags.String("key-file", "", "Server private key file (PEM, overrides config)")
	flags.String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeFlags copies explicitly set flags over the loaded configuration
func applyServeFlags(flags *pflag.FlagSet, cfg *config.Config) {
	override := func(flagName string, target *string) {
		if flags.Changed(flagName) {
			*target, _ = flags.GetString(flagName)
		}
	}

	override("port", &cfg.Server.Port)
	override("host", &cfg.Server.Host)
	override("tls-mode", &cfg.Server.TLS.Mode)
	override("cert-file", &cfg.Server.TLS.CertFile)
	override("key-file", &cfg.Server.TLS.KeyFile)
	override("ca-file", &cfg.Server.TLS.CAFile)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	applyServeFlags(cmd.Flags(), cfg)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg, logger)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to initialize observability", err)
	}
	defer shutdownObservability(om, logger)

	services, err := ai.NewServices(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.LogError(err, "Failed to close AI services")
		}
	}()

	generation := flows.New(flows.FromServices(services), flows.Options{
		Prompts:          cfg.Prompts(),
		UseSystemPrompts: cfg.AI.UseSystemPrompts,
		Observability:    om,
	}, logger)

	watcher := config.NewPromptWatcher(cfg, 0, func(path string) {
		logger.Info("Prompt templates reloaded", "path", path)
	}, logger)
	if err := watcher.Start(); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to watch prompt files", err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			logger.LogError(err, "Failed to stop prompt watcher")
		}
	}()

	money := formatters.NewMoneyFormatter(cfg.App.Locale)
	sessions := session.NewStore(cfg.Server.Web.SessionTTL, func() *orchestration.Controller {
		return orchestration.NewController(ctx, generation, money, logger)
	}, logger)
	sessions.SetMaxSessions(cfg.Server.Web.MaxSessions)
	sessions.StartCleanup(cfg.Server.Web.CleanupInterval)

	srv := server.NewServer(cfg, server.ConfigFromApp(cfg, Version), server.Dependencies{
		Flows:    generation,
		Models:   server.ModelsFromServices(services),
		Sessions: sessions,
		Money:    money,
	}, logger)
	return srv.Start(ctx, om)
}

func shutdownObservability(om *observability.ObservabilityManager, logger *errors.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		logger.LogError(err, "Failed to shut down observability")
	}
}
