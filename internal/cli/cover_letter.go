package cli

import (
	"salaryinsights/internal/common"
	"salaryinsights/internal/formatters"
	"salaryinsights/internal/types"

	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Generate a cover letter for a job profile",
	Long: `Generate a cover letter for the job profile. The letter references the
predicted salary range; pass --salary to use a known range, otherwise the
salary is predicted first. Use --pdf to also store the letter as a PDF.`,
	RunE: runCoverLetter,
}

func init() {
	addProfileFlags(coverLetterCmd)
	addOutputFlags(coverLetterCmd)
	coverLetterCmd.Flags().String("salary", "", "Predicted salary text, e.g. \"$90,000 - $120,000\"")
	coverLetterCmd.Flags().String("pdf", "", "Also write the letter as PDF to this file")
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
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

	salary, _ := cmd.Flags().GetString("salary")
	if salary == "" {
		logger.Info("Predicting salary for cover letter", "job_role", profile.JobRole)
		estimate, err := f.PredictSalary(ctx, profile.SalaryInput())
		if err != nil {
			return err
		}
		salary = formatters.NewMoneyFormatter(cfg.App.Locale).FormatSalaryRange(estimate)
	}

	letter, err := common.RunFlowCommand(ctx, logger, cmdConfig, profile.CoverLetterInput(salary), f.GenerateCoverLetter, nil,
		func(input types.GenerateCoverLetterInput, cfg common.CommandConfig) {
			logger.Info("Starting cover letter generation",
				"job_role", input.JobRole,
				"predicted_salary", input.PredictedSalary,
				"format", cfg.OutputFormat)
		})
	if err != nil {
		return err
	}

	if pdfPath, _ := cmd.Flags().GetString("pdf"); pdfPath != "" {
		doc, err := formatters.CoverLetterPDF(letter, profile.JobRole)
		if err != nil {
			return err
		}
		if err := common.NewOutputHandler(logger).WriteBinary(pdfPath, doc); err != nil {
			return err
		}
	}

	logger.Info("Cover letter generation completed successfully")
	return nil
}
