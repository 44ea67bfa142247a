package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
	"github.com/jonkmatsumo/resume-builder/internal/schemas"
	"github.com/jonkmatsumo/resume-builder/internal/server/middleware"
)

// authorizedResume loads the resume named by the {id} path segment and
// checks it belongs to the authenticated user. Missing documents report 404
// before ownership is considered, so ids cannot be probed for existence.
func (s *Server) authorizedResume(w http.ResponseWriter, r *http.Request) (*resume.Resume, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	id := r.PathValue("id")
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "Resume ID is required")
		return nil, false
	}

	doc, err := s.resumes.GetResume(r.Context(), id)
	if err != nil {
		log.Printf("Failed to get resume %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get resume")
		return nil, false
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return nil, false
	}
	if doc.UserID != userID {
		s.errorResponse(w, http.StatusForbidden, "Access denied")
		return nil, false
	}

	return doc, true
}

// writeSchemaError renders a schema validation failure with field paths.
func (s *Server) writeSchemaError(w http.ResponseWriter, ve *schemas.ValidationError) {
	details := make([]map[string]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		details = append(details, map[string]string{
			"field":   fe.Field,
			"message": fe.Message,
		})
	}
	s.jsonResponse(w, http.StatusBadRequest, map[string]any{
		"error":   "Validation failed",
		"details": details,
	})
}

// handleListResumes returns every resume owned by the authenticated user.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	docs, err := s.resumes.ListResumes(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to list resumes: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list resumes")
		return
	}

	s.jsonResponse(w, http.StatusOK, docs)
}

// handleCreateResume creates a resume from the request document. Identity
// fields in the payload are ignored; a payload without sections gets the
// four built-in sections seeded.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resume.StripIdentity(raw)

	payload, err := json.Marshal(raw)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc := resume.NewDocument("")
	if err := json.Unmarshal(payload, &doc); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume document: "+err.Error())
		return
	}
	if len(doc.Sections) == 0 {
		doc.Sections = resume.DefaultSections()
	}

	if !s.validDocument(w, &doc) {
		return
	}

	created, err := s.resumes.CreateResume(r.Context(), userID, doc)
	if err != nil {
		log.Printf("Failed to create resume: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create resume")
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

// handleGetResume returns a single resume.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleUpdateResume applies a shallow top-level merge of the request body
// over the stored document.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resume.StripIdentity(patch)

	merged, err := resume.Merge(*doc, patch)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume update: "+err.Error())
		return
	}
	if !s.validDocument(w, &merged) {
		return
	}

	updated, err := s.resumes.UpdateResume(r.Context(), doc.ID, patch)
	if err != nil {
		log.Printf("Failed to update resume %s: %v", doc.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update resume")
		return
	}
	if updated == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteResume removes a resume.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}

	deleted, err := s.resumes.DeleteResume(r.Context(), doc.ID)
	if err != nil {
		log.Printf("Failed to delete resume %s: %v", doc.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete resume")
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleCompletion reports how complete a resume is, 0-100.
func (s *Server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"score": resume.CompletionScore(doc)})
}

// validDocument runs schema validation and writes the 400 response itself
// when the document does not conform.
func (s *Server) validDocument(w http.ResponseWriter, doc *resume.Resume) bool {
	payload, err := json.Marshal(doc)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to encode resume")
		return false
	}

	if err := schemas.ValidateResume(payload); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			s.writeSchemaError(w, ve)
		} else {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
		}
		return false
	}
	return true
}
