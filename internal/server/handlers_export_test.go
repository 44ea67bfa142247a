package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleExportResume_Text(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "My Engineer Resume")

	req := authedRequest(userID, http.MethodGet, "/api/resumes/"+doc.ID+"/export?format=txt", nil)
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleExportResume(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="My_Engineer_Resume_resume.txt"`,
		w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "My Engineer Resume")
	assert.Contains(t, w.Body.String(), "Ada Lovelace")
}

func TestHandleExportResume_DefaultsToPDF(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	req := authedRequest(userID, http.MethodGet, "/api/resumes/"+doc.ID+"/export", nil)
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleExportResume(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, len(w.Body.Bytes()) > 0)
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestHandleExportResume_Zip(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	req := authedRequest(userID, http.MethodGet, "/api/resumes/"+doc.ID+"/export?format=zip", nil)
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleExportResume(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	// Zip local file header magic.
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestHandleExportResume_UnsupportedFormat(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	req := authedRequest(userID, http.MethodGet, "/api/resumes/"+doc.ID+"/export?format=rtf", nil)
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleExportResume(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported format")
}

func TestHandleExportResume_NotFound(t *testing.T) {
	s, _ := newTestServer(t)

	req := authedRequest(uuid.New(), http.MethodGet, "/api/resumes/missing/export?format=txt", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	s.handleExportResume(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
