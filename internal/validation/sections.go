package validation

import "application-portal/internal/model"

// SectionResult reports which required form sections are covered by the
// stored field records.
type SectionResult struct {
	IsValid  bool
	Present  []string
	Missing  []string
	Required []string
}

// ValidateSections collects the distinct section tags among fields and diffs
// them against the required set. Presence only; ordering does not matter.
func ValidateSections(fields []model.ApplicationField) SectionResult {
	seen := make(map[string]bool, len(fields))
	present := make([]string, 0, len(model.RequiredSections))
	for _, f := range fields {
		if f.Section == "" || seen[f.Section] {
			continue
		}
		seen[f.Section] = true
		present = append(present, f.Section)
	}

	missing := make([]string, 0)
	for _, section := range model.RequiredSections {
		if !seen[section] {
			missing = append(missing, section)
		}
	}

	return SectionResult{
		IsValid:  len(missing) == 0,
		Present:  present,
		Missing:  missing,
		Required: model.RequiredSections,
	}
}
