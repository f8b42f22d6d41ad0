package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"salaryinsights/internal/errors"
	"salaryinsights/internal/types"
)

// Wire shapes use pointers so a missing field can be told apart from a zero value.

type salaryEstimateWire struct {
	MinSalary    *float64 `json:"minSalary" validate:"required"`
	MaxSalary    *float64 `json:"maxSalary" validate:"required"`
	CurrencyCode *string  `json:"currencyCode" validate:"required,iso4217"`
}

type coverLetterWire struct {
	CoverLetter *string `json:"coverLetter" validate:"required"`
}

type skillSuggestionsWire struct {
	SuggestedSkills []string `json:"suggestedSkills" validate:"required"`
}

// stripFence removes a markdown code fence some providers put around JSON output.
func stripFence(text string) string {
	payload := strings.TrimSpace(text)
	if !strings.HasPrefix(payload, "```") {
		return payload
	}
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(payload), "```"))
}

func unmarshalOutput(text string, out any) error {
	if err := json.Unmarshal([]byte(stripFence(text)), out); err != nil {
		return errors.NewAIError(errors.ErrCodeSchemaMismatch, "response is not valid JSON", err)
	}
	return nil
}

func validateOutput(out any) error {
	if err := Validator().Struct(out); err != nil {
		return errors.NewAIError(errors.ErrCodeSchemaMismatch, fmt.Sprintf("response does not match schema: %v", err), err)
	}
	return nil
}

// DecodeSalaryEstimate parses and validates a salary prediction response.
// The currency code is upper-cased before the ISO 4217 check.
func DecodeSalaryEstimate(text string) (types.SalaryEstimate, error) {
	var wire salaryEstimateWire
	if err := unmarshalOutput(text, &wire); err != nil {
		return types.SalaryEstimate{}, err
	}
	if wire.CurrencyCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*wire.CurrencyCode))
		wire.CurrencyCode = &code
	}
	if err := validateOutput(&wire); err != nil {
		return types.SalaryEstimate{}, err
	}
	return types.SalaryEstimate{
		MinSalary:    *wire.MinSalary,
		MaxSalary:    *wire.MaxSalary,
		CurrencyCode: *wire.CurrencyCode,
	}, nil
}

// DecodeCoverLetter parses and validates a cover letter response
func DecodeCoverLetter(text string) (types.CoverLetter, error) {
	var wire coverLetterWire
	if err := unmarshalOutput(text, &wire); err != nil {
		return types.CoverLetter{}, err
	}
	if err := validateOutput(&wire); err != nil {
		return types.CoverLetter{}, err
	}
	return types.CoverLetter{Text: *wire.CoverLetter}, nil
}

// DecodeSkillSuggestions parses and validates a skill suggestion response
func DecodeSkillSuggestions(text string) (types.SkillSuggestions, error) {
	var wire skillSuggestionsWire
	if err := unmarshalOutput(text, &wire); err != nil {
		return types.SkillSuggestions{}, err
	}
	if err := validateOutput(&wire); err != nil {
		return types.SkillSuggestions{}, err
	}
	return types.SkillSuggestions{SuggestedSkills: wire.SuggestedSkills}, nil
}
