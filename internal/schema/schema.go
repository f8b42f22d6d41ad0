// Package schema holds the declarative validation rules for form input,
// flow inputs and model output.
package schema

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"salaryinsights/internal/errors"
	"salaryinsights/internal/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator, configured to report json field names
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Form field names as submitted by the browser
const (
	FieldJobRole        = "jobRole"
	FieldExperience     = "experience"
	FieldLocation       = "location"
	FieldSkills         = "skills"
	FieldJobDescription = "jobDescription"
)

var fieldMessages = map[string]string{
	FieldJobRole:        "Job role must be at least 2 characters.",
	FieldExperience:     "Please select an experience level.",
	FieldLocation:       "Location must be at least 2 characters.",
	FieldSkills:         "Please list some key skills (at least 10 characters).",
	FieldJobDescription: "Job description must be at least 50 characters.",
}

// FieldErrors maps a form field name to the message shown next to it
type FieldErrors map[string]string

// Fields returns the failing field names in sorted order
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err converts the field errors into a validation AppError, nil when empty
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	err := errors.NewValidationError(errors.ErrCodeInvalidProfile, "job profile failed validation", nil)
	for field, msg := range fe {
		err.WithContext(field, msg)
	}
	return err
}

// RawProfile carries the five form values exactly as submitted
type RawProfile struct {
	JobRole        string
	Experience     string
	Location       string
	Skills         string
	JobDescription string
}

// ValidateProfile checks the raw form values and, when all constraints hold,
// returns them as a JobProfile. Values are never trimmed or rewritten.
func ValidateProfile(raw RawProfile) (types.JobProfile, FieldErrors) {
	profile := types.JobProfile{
		JobRole:        raw.JobRole,
		Experience:     types.ExperienceLevel(raw.Experience),
		Location:       raw.Location,
		Skills:         raw.Skills,
		JobDescription: raw.JobDescription,
	}

	err := Validator().Struct(profile)
	if err == nil {
		return profile, nil
	}

	fieldErrs := FieldErrors{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fieldErrs[fe.Field()] = fieldMessages[fe.Field()]
		}
	} else {
		fieldErrs[FieldJobRole] = err.Error()
	}
	return types.JobProfile{}, fieldErrs
}

// ValidateInput validates a flow input struct against its tags
func ValidateInput(input any) error {
	if err := Validator().Struct(input); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "invalid flow input", err)
	}
	return nil
}
