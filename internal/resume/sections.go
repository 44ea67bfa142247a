package resume

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrSectionTitleRequired is returned when a custom section is appended with
// an empty or whitespace-only title. The message is surfaced to the client.
var ErrSectionTitleRequired = errors.New("Section title is required")

// SortedSections returns a copy of sections sorted by Order ascending, with
// a stable tie-break on original array position. The input is not mutated.
func SortedSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// VisibleSections returns the order-sorted sections filtered to visible
// ones. This is the rendering view of the registry.
func VisibleSections(sections []Section) []Section {
	sorted := SortedSections(sections)
	out := make([]Section, 0, len(sorted))
	for _, s := range sorted {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}

// Reorder removes the element at from in the order-sorted view, reinserts it
// at to, and renormalizes every Order to its new zero-based position. The
// renormalization is destructive to pre-existing order values: the result is
// always a dense 0..n-1 sequence.
func Reorder(sections []Section, from, to int) ([]Section, error) {
	sorted := SortedSections(sections)
	if from < 0 || from >= len(sorted) {
		return nil, fmt.Errorf("reorder: from index %d out of range [0,%d)", from, len(sorted))
	}
	if to < 0 || to >= len(sorted) {
		return nil, fmt.Errorf("reorder: to index %d out of range [0,%d)", to, len(sorted))
	}

	moved := sorted[from]
	rest := make([]Section, 0, len(sorted)-1)
	rest = append(rest, sorted[:from]...)
	rest = append(rest, sorted[from+1:]...)

	out := make([]Section, 0, len(sorted))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)

	for i := range out {
		out[i].Order = i
	}
	return out, nil
}

// ToggleVisibility flips Visible on the section with the given id, leaving
// order untouched. Unknown ids are a no-op: the returned slice equals the
// input.
func ToggleVisibility(sections []Section, id string) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	for i := range out {
		if out[i].ID == id {
			out[i].Visible = !out[i].Visible
		}
	}
	return out
}

// AppendCustomSection appends a new visible custom section with order equal
// to the current section count. Blank titles are rejected and the input is
// returned unchanged alongside ErrSectionTitleRequired.
func AppendCustomSection(sections []Section, title string) ([]Section, error) {
	if strings.TrimSpace(title) == "" {
		return sections, ErrSectionTitleRequired
	}
	content := ""
	out := make([]Section, len(sections), len(sections)+1)
	copy(out, sections)
	out = append(out, Section{
		ID:      uuid.New().String(),
		Title:   title,
		Type:    SectionCustom,
		Content: &content,
		Visible: true,
		Order:   len(sections),
	})
	return out, nil
}
