package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// AddSectionRequest is the body for POST /api/resumes/{id}/sections.
type AddSectionRequest struct {
	Title string `json:"title"`
}

// ReorderSectionsRequest is the body for POST /api/resumes/{id}/sections/reorder.
type ReorderSectionsRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// persistSections writes a new section registry back to the store and
// returns the updated document.
func (s *Server) persistSections(w http.ResponseWriter, r *http.Request, id string, sections []resume.Section) {
	payload, err := json.Marshal(sections)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to encode sections")
		return
	}

	updated, err := s.resumes.UpdateResume(r.Context(), id, map[string]json.RawMessage{
		"sections": payload,
	})
	if err != nil {
		log.Printf("Failed to update sections for resume %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update sections")
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleAddSection appends a custom section with the given title.
func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}

	var req AddSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sections, err := resume.AppendCustomSection(doc.Sections, req.Title)
	if err != nil {
		if errors.Is(err, resume.ErrSectionTitleRequired) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to add section")
		return
	}

	s.persistSections(w, r, doc.ID, sections)
}

// handleReorderSections moves the section at display position "from" to
// display position "to" and renumbers the registry.
func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}

	var req ReorderSectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sections, err := resume.Reorder(doc.Sections, req.From, req.To)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.persistSections(w, r, doc.ID, sections)
}

// handleToggleSectionVisibility flips the visible flag of one section.
func (s *Server) handleToggleSectionVisibility(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}

	sectionID := r.PathValue("sectionID")
	if sectionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Section ID is required")
		return
	}

	sections := resume.ToggleVisibility(doc.Sections, sectionID)
	s.persistSections(w, r, doc.ID, sections)
}
