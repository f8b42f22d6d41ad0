package common

import (
	"fmt"
	"slices"
	"strings"

	"salaryinsights/internal/schema"
	"salaryinsights/internal/types"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the configured formats, or every registered one
// when the configuration leaves them open
func GetSupportedFormats(supportedFormats []string) []string {
	if len(supportedFormats) > 0 {
		return supportedFormats
	}
	return NewOutputHandler(nil).GetSupportedFormats()
}

// ValidateProfile applies the form rules to command line input and joins
// all field messages into one validation error
func ValidateProfile(raw schema.RawProfile) (types.JobProfile, error) {
	profile, fieldErrs := schema.ValidateProfile(raw)
	if len(fieldErrs) == 0 {
		return profile, nil
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, field := range fieldErrs.Fields() {
		messages = append(messages, fmt.Sprintf("--%s: %s", FlagName(field), fieldErrs[field]))
	}
	return types.JobProfile{}, fmt.Errorf("%w\n  %s", fieldErrs.Err(), strings.Join(messages, "\n  "))
}

var flagNames = map[string]string{
	schema.FieldJobRole:        "role",
	schema.FieldExperience:     "experience",
	schema.FieldLocation:       "location",
	schema.FieldSkills:         "skills",
	schema.FieldJobDescription: "description",
}

// FlagName maps a profile field to its command line flag
func FlagName(field string) string {
	if name, ok := flagNames[field]; ok {
		return name
	}
	return field
}
