package resume

import "math"

// CompletionScore derives a 0-100 completeness percentage from required
// field presence. Only the first work experience and education entries are
// inspected; empty lists skip their checks entirely rather than counting
// against the total, so scores are not comparable across resumes with
// different amounts of list data. That is intentional: the score is a UI
// progress indicator, not a validation gate.
func CompletionScore(r *Resume) int {
	filled, total := 0, 0

	count := func(value string) {
		total++
		if value != "" {
			filled++
		}
	}

	count(r.PersonalInfo.FirstName)
	count(r.PersonalInfo.LastName)
	count(r.PersonalInfo.Email)

	count(r.ProfessionalSummary)

	if len(r.WorkExperience) > 0 {
		first := r.WorkExperience[0]
		count(first.JobTitle)
		count(first.Employer)
		count(first.StartDate)
		count(first.Description)
	}

	if len(r.Education) > 0 {
		first := r.Education[0]
		count(first.Degree)
		count(first.Institution)
		count(first.EndDate)
	}

	total++
	if len(r.Skills.Technical) > 0 {
		filled++
	}

	pct := int(math.Round(float64(filled) / float64(total) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}
