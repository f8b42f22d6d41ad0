package types

// ExperienceLevel is one of the fixed seniority buckets offered by the form
type ExperienceLevel string

const (
	ExperienceEntryLevel  ExperienceLevel = "entry-level"
	ExperienceMidLevel    ExperienceLevel = "mid-level"
	ExperienceSeniorLevel ExperienceLevel = "senior-level"
	ExperienceLead        ExperienceLevel = "lead"
	ExperienceManager     ExperienceLevel = "manager"
)

// ExperienceLevels lists the accepted levels in display order
var ExperienceLevels = []ExperienceLevel{
	ExperienceEntryLevel,
	ExperienceMidLevel,
	ExperienceSeniorLevel,
	ExperienceLead,
	ExperienceManager,
}

var experienceLabels = map[ExperienceLevel]string{
	ExperienceEntryLevel:  "Entry-level",
	ExperienceMidLevel:    "Mid-level",
	ExperienceSeniorLevel: "Senior-level",
	ExperienceLead:        "Lead",
	ExperienceManager:     "Manager",
}

// Label returns the human readable name of the level
func (e ExperienceLevel) Label() string {
	if label, ok := experienceLabels[e]; ok {
		return label
	}
	return string(e)
}

// Valid reports whether e is one of ExperienceLevels
func (e ExperienceLevel) Valid() bool {
	_, ok := experienceLabels[e]
	return ok
}

// JobProfile is the validated form submission. It is passed by value and
// never mutated after capture.
type JobProfile struct {
	JobRole        string          `json:"jobRole" validate:"min=2"`
	Experience     ExperienceLevel `json:"experience" validate:"oneof=entry-level mid-level senior-level lead manager"`
	Location       string          `json:"location" validate:"min=2"`
	Skills         string          `json:"skills" validate:"min=10"`
	JobDescription string          `json:"jobDescription" validate:"min=50"`
}

// SalaryInput returns the subset of the profile used for salary prediction
func (p JobProfile) SalaryInput() PredictSalaryInput {
	return PredictSalaryInput{
		JobRole:    p.JobRole,
		Experience: string(p.Experience),
		Location:   p.Location,
		Skills:     p.Skills,
	}
}

// CoverLetterInput combines the profile with the formatted salary range
func (p JobProfile) CoverLetterInput(predictedSalary string) GenerateCoverLetterInput {
	return GenerateCoverLetterInput{
		JobRole:         p.JobRole,
		Experience:      string(p.Experience),
		Location:        p.Location,
		Skills:          p.Skills,
		PredictedSalary: predictedSalary,
		JobDescription:  p.JobDescription,
	}
}

// SkillsInput returns the input for skill suggestion
func (p JobProfile) SkillsInput() SuggestSkillsInput {
	return SuggestSkillsInput{JobDescription: p.JobDescription}
}

// PredictSalaryInput represents the input for salary prediction
type PredictSalaryInput struct {
	JobRole    string `json:"jobRole" validate:"required,min=2"`
	Experience string `json:"experience" validate:"required,oneof=entry-level mid-level senior-level lead manager"`
	Location   string `json:"location" validate:"required,min=2"` // e.g. "San Francisco, CA"
	Skills     string `json:"skills" validate:"required,min=10"`  // comma separated
}

// SalaryEstimate represents the predicted salary range in local currency
type SalaryEstimate struct {
	MinSalary    float64 `json:"minSalary"`
	MaxSalary    float64 `json:"maxSalary"`
	CurrencyCode string  `json:"currencyCode"` // ISO 4217
}

// Swapped reports whether the model returned an inverted range
func (s SalaryEstimate) Swapped() bool {
	return s.MinSalary > s.MaxSalary
}

// GenerateCoverLetterInput represents the input for cover letter generation
type GenerateCoverLetterInput struct {
	JobRole         string `json:"jobRole" validate:"required,min=2"`
	Experience      string `json:"experience" validate:"required,oneof=entry-level mid-level senior-level lead manager"`
	Location        string `json:"location" validate:"required,min=2"`
	Skills          string `json:"skills" validate:"required,min=10"`
	PredictedSalary string `json:"predictedSalary" validate:"required"`
	JobDescription  string `json:"jobDescription" validate:"required,min=50"`
}

// CoverLetter represents a generated cover letter
type CoverLetter struct {
	Text string `json:"coverLetter"`
}

// SuggestSkillsInput represents the input for skill suggestion
type SuggestSkillsInput struct {
	JobDescription string `json:"jobDescription" validate:"required,min=50"`
}

// SkillSuggestions is the ordered list returned by the model. Entries are
// neither deduplicated nor checked against the declared skills.
type SkillSuggestions struct {
	SuggestedSkills []string `json:"suggestedSkills"`
}

// SalaryReport is a prediction together with the profile it was made for and
// its display form
type SalaryReport struct {
	Profile         JobProfile     `json:"profile"`
	Estimate        SalaryEstimate `json:"estimate"`
	PredictedSalary string         `json:"predictedSalary"`
}
