package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeSkill trims, collapses inner whitespace and title-cases a skill name.
func normalizeSkill(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(name)
}

// normalizeSkills normalizes names and drops blanks and case-insensitive duplicates, keeping
// the first occurrence.
func normalizeSkills(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = normalizeSkill(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
