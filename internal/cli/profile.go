package cli

import (
	"fmt"

	"salaryinsights/internal/common"
	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
	"salaryinsights/internal/schema"
	"salaryinsights/internal/types"

	"github.com/spf13/cobra"
)

// addProfileFlags registers the job profile inputs shared by the generation commands
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("role", "", "Job role, e.g. \"Software Engineer\"")
	cmd.Flags().String("experience", "", fmt.Sprintf("Experience level %v", types.ExperienceLevels))
	cmd.Flags().String("location", "", "Job location, e.g. \"San Francisco, CA\"")
	cmd.Flags().String("skills", "", "Comma separated skills, e.g. \"Go, Kubernetes, SQL\"")
	cmd.Flags().String("description", "", "Job description text")
	cmd.Flags().String("description-file", "", "Read the job description from a file")
	cmd.MarkFlagsMutuallyExclusive("description", "description-file")
}

// addOutputFlags registers the output destination and format flags
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("format", "f", "", "Output format: json, text, markdown (default from config)")
}

// readProfile collects and validates the profile flags
func readProfile(cmd *cobra.Command, cfg *config.Config, logger *errors.Logger) (types.JobProfile, error) {
	flags := cmd.Flags()
	raw := schema.RawProfile{}
	raw.JobRole, _ = flags.GetString("role")
	raw.Experience, _ = flags.GetString("experience")
	raw.Location, _ = flags.GetString("location")
	raw.Skills, _ = flags.GetString("skills")
	raw.JobDescription, _ = flags.GetString("description")

	if file, _ := flags.GetString("description-file"); file != "" {
		content, err := common.NewFileProcessor(logger, cfg.App.MaxFileSize).ReadTextFile(file)
		if err != nil {
			return types.JobProfile{}, err
		}
		raw.JobDescription = content
	}

	return common.ValidateProfile(raw)
}

// readOutputConfig resolves the output flags against the configured formats
func readOutputConfig(cmd *cobra.Command, cfg *config.Config) (common.CommandConfig, error) {
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.App.DefaultFormat
	}

	if err := common.ValidateOutputFormat(format, common.GetSupportedFormats(cfg.App.SupportedFormats)); err != nil {
		return common.CommandConfig{}, errors.NewValidationError(errors.ErrCodeInvalidFormat, err.Error(), nil)
	}

	return common.CommandConfig{OutputFile: output, OutputFormat: format}, nil
}
