package export

import (
	"fmt"
	"strings"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// Lines flattens a resume into the plain-text export line sequence. The
// built-in blocks (personal info, summary, work experience, education,
// skills) are emitted unconditionally in fixed order regardless of their
// section registry entries; only custom sections honor the registry's order
// and visibility. That asymmetry matches the shipped editor behavior and is
// covered by tests.
func Lines(r *resume.Resume) []string {
	var lines []string

	lines = append(lines, r.Title, "")

	pi := r.PersonalInfo
	lines = append(lines, fmt.Sprintf("%s %s", pi.FirstName, pi.LastName))
	lines = append(lines, pi.Email)
	if pi.Phone != "" {
		lines = append(lines, pi.Phone)
	}
	if pi.Location != "" {
		lines = append(lines, pi.Location)
	}
	if pi.Website != "" {
		lines = append(lines, pi.Website)
	}
	if pi.LinkedIn != "" {
		lines = append(lines, "linkedin.com/in/"+pi.LinkedIn)
	}

	lines = append(lines, "", "PROFESSIONAL SUMMARY")
	lines = append(lines, r.ProfessionalSummary)

	lines = append(lines, "", "WORK EXPERIENCE")
	for _, exp := range r.WorkExperience {
		lines = append(lines, "", fmt.Sprintf("%s at %s", exp.JobTitle, exp.Employer))
		end := exp.EndDate
		if exp.CurrentPosition {
			end = "Present"
		}
		lines = append(lines, fmt.Sprintf("%s - %s", exp.StartDate, end))
		if exp.Location != "" {
			lines = append(lines, exp.Location)
		}
		lines = append(lines, exp.Description)
	}

	lines = append(lines, "", "EDUCATION")
	for _, edu := range r.Education {
		lines = append(lines, "", fmt.Sprintf("%s - %s", edu.Degree, edu.Institution))
		end := edu.EndDate
		if edu.CurrentlyStudying {
			end = "Present"
		}
		lines = append(lines, fmt.Sprintf("%s - %s", edu.StartDate, end))
		if edu.Location != "" {
			lines = append(lines, edu.Location)
		}
		if edu.Description != "" {
			lines = append(lines, edu.Description)
		}
	}

	lines = append(lines, "", "SKILLS")
	lines = append(lines, "Technical: "+strings.Join(r.Skills.Technical, ", "))
	if len(r.Skills.Soft) > 0 {
		lines = append(lines, "Soft: "+strings.Join(r.Skills.Soft, ", "))
	}

	for _, section := range resume.VisibleSections(r.Sections) {
		if section.Type != resume.SectionCustom {
			continue
		}
		content := ""
		if section.Content != nil {
			content = *section.Content
		}
		lines = append(lines, "", strings.ToUpper(section.Title))
		lines = append(lines, content)
	}

	return lines
}

// Text renders the plain-text export payload.
func Text(r *resume.Resume) string {
	return strings.Join(Lines(r), "\n") + "\n"
}
