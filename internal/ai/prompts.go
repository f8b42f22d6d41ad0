package ai

import (
	"bytes"
	"fmt"
	"text/template"

	"salaryinsights/internal/config"
)

// DefaultSystemPrompts provides the built-in system instructions per operation
var DefaultSystemPrompts = map[string]string{
	config.OperationSalary: `You are a salary prediction expert with current knowledge of compensation data across industries and regions.

- Quote amounts in the local currency of the job location
- Give yearly gross amounts as plain numbers without separators or symbols
- Use the ISO 4217 code of that currency`,

	config.OperationCoverLetter: `You are an expert cover letter writer, specializing in tailoring cover letters to predicted salaries and job descriptions.

- Write in the first person, addressed to the hiring manager
- Stay within the skills and experience the applicant provided
- Keep a confident and professional tone`,

	config.OperationSkills: `You are a career coach who knows which skills employers pay a premium for.

- Suggest concrete, learnable skills (technologies, methods, certifications)
- Order them from most to least salary impact
- Answer with short skill names only`,
}

// DefaultUserPrompts provides the built-in user prompt templates per
// operation. Templates use text/template syntax over the flow input struct.
var DefaultUserPrompts = map[string]string{
	config.OperationSalary: `You are a salary prediction expert. Based on the following job details, predict a realistic salary range.

Job Role: {{.JobRole}}
Experience: {{.Experience}}
Location: {{.Location}}
Skills: {{.Skills}}

Provide the estimated minimum and maximum salary in the local currency for the specified location, along with the appropriate ISO 4217 currency code. Do not add any commentary.`,

	// The template must keep "Cover Letter:" as its final line.
	config.OperationCoverLetter: `You are an expert cover letter writer, specializing in tailoring cover letters to predicted salaries and job descriptions.

Based on the job role, experience, location, skills, predicted salary, and job description, generate a cover letter that highlights the applicant's strengths and justifies the desired salary.

Job Role: {{.JobRole}}
Experience: {{.Experience}}
Location: {{.Location}}
Skills: {{.Skills}}
Predicted Salary: {{.PredictedSalary}}
Job Description: {{.JobDescription}}

Cover Letter:`,

	config.OperationSkills: `Based on the following job description, suggest skills the applicant could learn to qualify for a higher salary in this role.

Job Description: {{.JobDescription}}

Return the skills as a list.`,
}

// PromptSet is the pair of templates used for one operation
type PromptSet struct {
	System string
	User   string
}

// ResolvePrompts picks the prompts for an operation: loaded override first,
// built-in default otherwise
func ResolvePrompts(store *config.PromptStore, operation string) PromptSet {
	loaded := store.Get(operation)
	return PromptSet{
		System: resolvePrompt(loaded.System, DefaultSystemPrompts[operation]),
		User:   resolvePrompt(loaded.User, DefaultUserPrompts[operation]),
	}
}

// resolvePrompt returns the override when set and the default otherwise
func resolvePrompt(override, fromDefault string) string {
	if override != "" {
		return override
	}
	return fromDefault
}

// RenderPrompt executes a prompt template against data. Values are inserted
// verbatim; unknown fields are an error.
func RenderPrompt(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s prompt: %w", name, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}
