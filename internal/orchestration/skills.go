package orchestration

import (
	"strings"
	"unicode"
)

// Skill is one suggested skill as shown in the results view
type Skill struct {
	Name  string `json:"name"`
	Known bool   `json:"known"` // already listed in the submitted skills
}

// MarkKnownSkills pairs each suggestion with whether the user already listed
// it. Order and duplicates are kept.
func MarkKnownSkills(suggested []string, declared string) []Skill {
	known := make(map[string]bool)
	for _, s := range splitSkills(declared) {
		known[s] = true
	}

	skills := make([]Skill, 0, len(suggested))
	for _, name := range suggested {
		skills = append(skills, Skill{Name: name, Known: known[normalizeSkill(name)]})
	}
	return skills
}

func splitSkills(declared string) []string {
	parts := strings.FieldsFunc(declared, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '|'
	})
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := normalizeSkill(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " "))
}
