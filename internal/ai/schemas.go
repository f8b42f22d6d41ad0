package ai

import "google.golang.org/genai"

// SalaryEstimateSchema describes {minSalary, maxSalary, currencyCode}
func SalaryEstimateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"minSalary": {
				Type:        genai.TypeNumber,
				Description: "The minimum predicted salary in the local currency.",
			},
			"maxSalary": {
				Type:        genai.TypeNumber,
				Description: "The maximum predicted salary in the local currency.",
			},
			"currencyCode": {
				Type:        genai.TypeString,
				Description: "The ISO 4217 currency code (e.g., USD, EUR, GBP).",
			},
		},
		Required:         []string{"minSalary", "maxSalary", "currencyCode"},
		PropertyOrdering: []string{"minSalary", "maxSalary", "currencyCode"},
	}
}

// CoverLetterSchema describes {coverLetter}
func CoverLetterSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"coverLetter": {
				Type:        genai.TypeString,
				Description: "The generated cover letter.",
			},
		},
		Required: []string{"coverLetter"},
	}
}

// SkillSuggestionsSchema describes {suggestedSkills: [string]}
func SkillSuggestionsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"suggestedSkills": {
				Type:        genai.TypeArray,
				Description: "Skills that would increase the applicant's salary, most impactful first.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"suggestedSkills"},
	}
}
