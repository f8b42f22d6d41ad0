package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"salaryinsights/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "SalaryReport", &SalaryTextFormatter{})
	registry.RegisterFormatter("markdown", "SalaryReport", &SalaryMarkdownFormatter{})
	registry.RegisterFormatter("text", "CoverLetter", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "CoverLetter", &CoverLetterMarkdownFormatter{})
	registry.RegisterFormatter("text", "SkillSuggestions", &SkillsTextFormatter{})
	registry.RegisterFormatter("markdown", "SkillSuggestions", &SkillsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.SalaryReport:
		return "SalaryReport"
	case types.CoverLetter:
		return "CoverLetter"
	case types.SkillSuggestions:
		return "SkillSuggestions"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// SalaryTextFormatter handles text formatting for salary predictions
type SalaryTextFormatter struct{}

func (stf *SalaryTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.SalaryReport)
	if !ok {
		return "", fmt.Errorf("expected SalaryReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== PREDICTED SALARY RANGE ===\n\n")
	output.WriteString(report.PredictedSalary)
	output.WriteString("\n")
	output.WriteString(fmt.Sprintf("Currency: %s\n\n", report.Estimate.CurrencyCode))

	output.WriteString("=== JOB DETAILS ===\n")
	output.WriteString(fmt.Sprintf("Job Role: %s\n", report.Profile.JobRole))
	output.WriteString(fmt.Sprintf("Experience: %s\n", report.Profile.Experience.Label()))
	output.WriteString(fmt.Sprintf("Location: %s\n", report.Profile.Location))
	output.WriteString(fmt.Sprintf("Skills: %s\n", report.Profile.Skills))

	return output.String(), nil
}

func (stf *SalaryTextFormatter) SupportedType() string {
	return "SalaryReport"
}

// SalaryMarkdownFormatter handles markdown formatting for salary predictions
type SalaryMarkdownFormatter struct{}

func (smf *SalaryMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.SalaryReport)
	if !ok {
		return "", fmt.Errorf("expected SalaryReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Predicted Salary Range\n\n")
	output.WriteString(fmt.Sprintf("**%s** (%s)\n\n", report.PredictedSalary, report.Estimate.CurrencyCode))

	output.WriteString("| Min | Max |\n|---|---|\n")
	output.WriteString(fmt.Sprintf("| %s | %s |\n\n",
		CompactNumber(report.Estimate.MinSalary), CompactNumber(report.Estimate.MaxSalary)))

	output.WriteString("## Job Details\n\n")
	output.WriteString(fmt.Sprintf("- **Job Role:** %s\n", report.Profile.JobRole))
	output.WriteString(fmt.Sprintf("- **Experience:** %s\n", report.Profile.Experience.Label()))
	output.WriteString(fmt.Sprintf("- **Location:** %s\n", report.Profile.Location))
	output.WriteString(fmt.Sprintf("- **Skills:** %s\n", report.Profile.Skills))

	return output.String(), nil
}

func (smf *SalaryMarkdownFormatter) SupportedType() string {
	return "SalaryReport"
}

// CoverLetterTextFormatter prints the letter as is
type CoverLetterTextFormatter struct{}

func (ctf *CoverLetterTextFormatter) Format(data any) (string, error) {
	letter, ok := data.(types.CoverLetter)
	if !ok {
		return "", fmt.Errorf("expected CoverLetter, got %T", data)
	}
	return letter.Text + "\n", nil
}

func (ctf *CoverLetterTextFormatter) SupportedType() string {
	return "CoverLetter"
}

// CoverLetterMarkdownFormatter handles markdown formatting for cover letters
type CoverLetterMarkdownFormatter struct{}

func (cmf *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	letter, ok := data.(types.CoverLetter)
	if !ok {
		return "", fmt.Errorf("expected CoverLetter, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Your AI-Generated Cover Letter\n\n")
	output.WriteString(letter.Text)
	output.WriteString("\n")
	return output.String(), nil
}

func (cmf *CoverLetterMarkdownFormatter) SupportedType() string {
	return "CoverLetter"
}

// SkillsTextFormatter handles text formatting for skill suggestions
type SkillsTextFormatter struct{}

func (stf *SkillsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SkillSuggestions)
	if !ok {
		return "", fmt.Errorf("expected SkillSuggestions, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SUGGESTED SKILLS FOR HIGHER SALARY ===\n\n")
	if len(result.SuggestedSkills) == 0 {
		output.WriteString("No skills suggested.\n")
		return output.String(), nil
	}
	for i, skill := range result.SuggestedSkills {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, skill))
	}

	return output.String(), nil
}

func (stf *SkillsTextFormatter) SupportedType() string {
	return "SkillSuggestions"
}

// SkillsMarkdownFormatter handles markdown formatting for skill suggestions
type SkillsMarkdownFormatter struct{}

func (smf *SkillsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.SkillSuggestions)
	if !ok {
		return "", fmt.Errorf("expected SkillSuggestions, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Suggested Skills for Higher Salary\n\n")
	if len(result.SuggestedSkills) == 0 {
		output.WriteString("_No skills suggested._\n")
		return output.String(), nil
	}
	for _, skill := range result.SuggestedSkills {
		output.WriteString(fmt.Sprintf("- %s\n", skill))
	}

	return output.String(), nil
}

func (smf *SkillsMarkdownFormatter) SupportedType() string {
	return "SkillSuggestions"
}
