package cli

import (
	"salaryinsights/internal/common"
	"salaryinsights/internal/types"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Suggest skills that could raise the salary for a job",
	Long: `Suggest skills worth learning for the given job description. Only the
description is sent to the model.`,
	RunE: runSkills,
}

func init() {
	skillsCmd.Flags().String("description", "", "Job description text")
	skillsCmd.Flags().String("description-file", "", "Read the job description from a file")
	skillsCmd.MarkFlagsMutuallyExclusive("description", "description-file")
	skillsCmd.MarkFlagsOneRequired("description", "description-file")
	addOutputFlags(skillsCmd)
}

func runSkills(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	description, _ := cmd.Flags().GetString("description")
	if file, _ := cmd.Flags().GetString("description-file"); file != "" {
		content, err := common.NewFileProcessor(logger, cfg.App.MaxFileSize).ReadTextFile(file)
		if err != nil {
			return err
		}
		description = content
	}
	input := types.SuggestSkillsInput{JobDescription: description}

	cmdConfig, err := readOutputConfig(cmd, cfg)
	if err != nil {
		return err
	}

	f, closeFlows, err := newFlows(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFlows()

	_, err = common.RunFlowCommand(ctx, logger, cmdConfig, input, f.SuggestSkills,
		func(skills []string) any {
			return types.SkillSuggestions{SuggestedSkills: skills}
		},
		func(input types.SuggestSkillsInput, cfg common.CommandConfig) {
			logger.Info("Starting skill suggestions",
				"description_length", len(input.JobDescription),
				"format", cfg.OutputFormat)
		})
	if err != nil {
		return err
	}

	logger.Info("Skill suggestions completed successfully")
	return nil
}
