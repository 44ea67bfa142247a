package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/jonkmatsumo/resume-builder/internal/fetch"
)

// handleJobPreview fetches a job posting URL and returns its title, site
// and description for display next to a linked resume.
func (s *Server) handleJobPreview(w http.ResponseWriter, r *http.Request) {
	jobURL := r.URL.Query().Get("url")
	if jobURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	preview, err := fetch.PreviewURL(r.Context(), jobURL, nil)
	if err != nil {
		var fe *fetch.Error
		if errors.As(err, &fe) && fe.Message == "invalid URL" {
			s.errorResponse(w, http.StatusBadRequest, "Invalid job posting URL")
			return
		}
		log.Printf("Failed to preview job posting %s: %v", jobURL, err)
		s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job posting")
		return
	}

	s.jsonResponse(w, http.StatusOK, preview)
}

// handleSuggestSummary asks the configured model for a professional summary
// draft based on the rest of the document. Returns 503 when no API key was
// configured at startup.
func (s *Server) handleSuggestSummary(w http.ResponseWriter, r *http.Request) {
	if s.suggester == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Summary suggestions are not configured")
		return
	}

	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}

	suggestion, err := s.suggester.SuggestSummary(r.Context(), doc)
	if err != nil {
		log.Printf("Failed to suggest summary for resume %s: %v", doc.ID, err)
		s.errorResponse(w, http.StatusBadGateway, "Failed to generate suggestion")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}
