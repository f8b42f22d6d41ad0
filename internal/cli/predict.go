package cli

import (
	"salaryinsights/internal/common"
	"salaryinsights/internal/formatters"
	"salaryinsights/internal/types"

	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the salary range for a job profile",
	Long: `Estimate the minimum and maximum salary for a job role, experience level,
location and skill set. All profile flags are required and validated with the
same rules as the web form.`,
	Example: `  salaryinsights predict --role "Software Engineer" --experience mid-level \
    --location "Berlin, DE" --skills "Go, Kubernetes, SQL" --description-file job.txt`,
	RunE: runPredict,
}

func init() {
	addProfileFlags(predictCmd)
	addOutputFlags(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	profile, err := readProfile(cmd, cfg, logger)
	if err != nil {
		return err
	}
	cmdConfig, err := readOutputConfig(cmd, cfg)
	if err != nil {
		return err
	}

	f, closeFlows, err := newFlows(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFlows()

	money := formatters.NewMoneyFormatter(cfg.App.Locale)
	_, err = common.RunFlowCommand(ctx, logger, cmdConfig, profile.SalaryInput(), f.PredictSalary,
		func(estimate types.SalaryEstimate) any {
			return types.SalaryReport{
				Profile:         profile,
				Estimate:        estimate,
				PredictedSalary: money.FormatSalaryRange(estimate),
			}
		},
		func(input types.PredictSalaryInput, cfg common.CommandConfig) {
			logger.Info("Starting salary prediction",
				"job_role", input.JobRole,
				"experience", input.Experience,
				"location", input.Location,
				"format", cfg.OutputFormat)
		})
	if err != nil {
		return err
	}

	logger.Info("Salary prediction completed successfully")
	return nil
}
