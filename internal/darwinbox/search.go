package darwinbox

import (
	"strings"

	"github.com/sagarbagwe/darwinbox-ai-agent/pkg/models"
)

// Name-bearing fields considered during search, each with its own
// spelling fallbacks. preferred_name participates in matching even
// though it is not part of the extracted record.
var nameFieldAliases = [][]string{
	{"full_name", "employee_name", "name"},
	{"first_name", "firstName"},
	{"last_name", "lastName"},
	{"preferred_name", "preferredName"},
}

// candidateNames collects the lowercased, non-empty name fields of one
// raw roster entry.
func candidateNames(raw map[string]any) []string {
	fields := make([]string, 0, len(nameFieldAliases))
	for _, aliases := range nameFieldAliases {
		for _, key := range aliases {
			v, ok := raw[key]
			if !ok || v == nil {
				continue
			}
			s, _ := v.(string)
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" && s != "none" {
				fields = append(fields, s)
				break
			}
		}
	}
	return fields
}

// matchesName applies the match rules in order, first hit wins:
// direct substring; every query word a substring of some token of one
// field; any single query word a token substring anywhere.
func matchesName(fields []string, query string) bool {
	for _, field := range fields {
		if strings.Contains(field, query) {
			return true
		}
	}

	words := strings.Fields(query)
	if len(words) > 1 {
		for _, field := range fields {
			tokens := strings.Fields(field)
			allMatch := true
			for _, word := range words {
				wordMatch := false
				for _, token := range tokens {
					if strings.Contains(token, word) {
						wordMatch = true
						break
					}
				}
				if !wordMatch {
					allMatch = false
					break
				}
			}
			if allMatch {
				return true
			}
		}
	}

	for _, word := range words {
		for _, field := range fields {
			if strings.Contains(field, word) {
				return true
			}
			for _, token := range strings.Fields(field) {
				if strings.Contains(token, word) {
					return true
				}
			}
		}
	}

	return false
}

// MatchEmployees filters raw roster entries by a free-form name query.
// Pure substring and token logic, no ranking or edit distance; order
// follows the roster.
func MatchEmployees(entries []map[string]any, query string) []models.EmployeeRecord {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}

	var matches []models.EmployeeRecord
	for _, raw := range entries {
		fields := candidateNames(raw)
		if len(fields) == 0 {
			continue
		}
		if matchesName(fields, normalized) {
			matches = append(matches, models.ExtractEmployee(raw))
		}
	}
	return matches
}
