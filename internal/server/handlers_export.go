package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jonkmatsumo/resume-builder/internal/export"
)

// handleExportResume renders the resume in the requested format. The format
// query parameter accepts txt, pdf, docx or zip and defaults to pdf; zip
// bundles all three single-document formats.
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.authorizedResume(w, r)
	if !ok {
		return
	}

	formatStr := r.URL.Query().Get("format")
	if formatStr == "" {
		formatStr = string(export.FormatPDF)
	}

	format, err := export.ParseFormat(formatStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var data []byte
	if format == export.FormatZip {
		data, err = export.Bundle(r.Context(), doc)
	} else {
		data, err = export.Render(doc, format)
	}
	if err != nil {
		log.Printf("Failed to export resume %s as %s: %v", doc.ID, format, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to export resume")
		return
	}

	w.Header().Set("Content-Type", format.MediaType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(doc.Title, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write export response: %v", err)
	}
}
