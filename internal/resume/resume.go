// Package resume defines the canonical resume document model shared by the
// editor API, the persistence layer, and the export renderers.
package resume

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Section type vocabulary. Built-in types derive their display content from
// dedicated document fields; custom sections carry their own text.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionCustom     = "custom"
)

// PersonalInfo holds the contact block of a resume.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Website   string `json:"website,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// WorkExperience is one employment entry. Ordering is list order; there is
// no separate position field.
type WorkExperience struct {
	ID              string `json:"id"`
	JobTitle        string `json:"jobTitle"`
	Employer        string `json:"employer"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate,omitempty"`
	CurrentPosition bool   `json:"currentPosition,omitempty"`
	Location        string `json:"location,omitempty"`
	Description     string `json:"description"`
}

// Education is one education entry.
type Education struct {
	ID                string `json:"id"`
	Degree            string `json:"degree"`
	Institution       string `json:"institution"`
	StartDate         string `json:"startDate,omitempty"`
	EndDate           string `json:"endDate,omitempty"`
	CurrentlyStudying bool   `json:"currentlyStudying,omitempty"`
	Location          string `json:"location,omitempty"`
	Description       string `json:"description,omitempty"`
}

// Skills groups technical and soft skill lists. Duplicates are not rejected;
// the lists are ordered and treated as sets by intent only.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft,omitempty"`
}

// Section is an orderable, visibility-toggleable descriptor of a display
// block. Content is only meaningful for custom sections; it is nil for
// built-in types. Order is a sort key, not an array index: consumers must
// sort defensively because values are only dense immediately after a reorder.
type Section struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Type    string  `json:"type"`
	Content *string `json:"content"`
	Visible bool    `json:"visible"`
	Order   int     `json:"order"`
}

// UnmarshalJSON applies the visible-defaults-to-true rule: a section payload
// that omits "visible" is visible.
func (s *Section) UnmarshalJSON(data []byte) error {
	type alias Section
	aux := struct {
		Visible *bool `json:"visible"`
		*alias
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Visible == nil {
		s.Visible = true
	} else {
		s.Visible = *aux.Visible
	}
	return nil
}

// Resume is the root aggregate, owned by exactly one user. ID, UserID,
// CreatedAt and UpdatedAt are server-assigned and never client-settable.
type Resume struct {
	ID                  string           `json:"id"`
	UserID              uuid.UUID        `json:"userId"`
	Title               string           `json:"title"`
	JobURL              string           `json:"jobUrl,omitempty"`
	PersonalInfo        PersonalInfo     `json:"personalInfo"`
	ProfessionalSummary string           `json:"professionalSummary"`
	WorkExperience      []WorkExperience `json:"workExperience"`
	Education           []Education      `json:"education"`
	Skills              Skills           `json:"skills"`
	Sections            []Section        `json:"sections"`
	CreatedAt           string           `json:"createdAt"`
	UpdatedAt           string           `json:"updatedAt"`
}

// DefaultSections returns the four built-in sections seeded at creation
// time, ordered 0-3 and visible.
func DefaultSections() []Section {
	return []Section{
		{ID: uuid.New().String(), Title: "Professional Summary", Type: SectionSummary, Visible: true, Order: 0},
		{ID: uuid.New().String(), Title: "Work Experience", Type: SectionExperience, Visible: true, Order: 1},
		{ID: uuid.New().String(), Title: "Education", Type: SectionEducation, Visible: true, Order: 2},
		{ID: uuid.New().String(), Title: "Skills", Type: SectionSkills, Visible: true, Order: 3},
	}
}

// NewDocument builds an empty resume with seeded sections and empty
// collections. Identity fields are left for the store to assign.
func NewDocument(title string) Resume {
	return Resume{
		Title:          title,
		WorkExperience: []WorkExperience{},
		Education:      []Education{},
		Skills:         Skills{Technical: []string{}},
		Sections:       DefaultSections(),
	}
}

// Timestamp formats a server-assigned document timestamp.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
