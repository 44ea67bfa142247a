package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

func TestHandleAddSection(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	req := authedRequest(userID, http.MethodPost, "/api/resumes/"+doc.ID+"/sections", map[string]string{
		"title": "Certifications",
	})
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleAddSection(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated resume.Resume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Len(t, updated.Sections, 5)

	added := updated.Sections[4]
	assert.Equal(t, "Certifications", added.Title)
	assert.Equal(t, resume.SectionCustom, added.Type)
	assert.Equal(t, 4, added.Order)
	assert.True(t, added.Visible)
	require.NotNil(t, added.Content)
	assert.Empty(t, *added.Content)
}

func TestHandleAddSection_BlankTitle(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	for _, title := range []string{"", "   "} {
		req := authedRequest(userID, http.MethodPost, "/api/resumes/"+doc.ID+"/sections", map[string]string{
			"title": title,
		})
		req.SetPathValue("id", doc.ID)
		w := httptest.NewRecorder()
		s.handleAddSection(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Section title is required")
	}
}

func TestHandleReorderSections(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	// Move the summary section (position 0) to the end.
	req := authedRequest(userID, http.MethodPost, "/api/resumes/"+doc.ID+"/sections/reorder", map[string]int{
		"from": 0,
		"to":   3,
	})
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleReorderSections(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated resume.Resume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))

	ordered := resume.SortedSections(updated.Sections)
	types := make([]string, 0, len(ordered))
	for i, sec := range ordered {
		assert.Equal(t, i, sec.Order)
		types = append(types, sec.Type)
	}
	assert.Equal(t, []string{"experience", "education", "skills", "summary"}, types)
}

func TestHandleReorderSections_OutOfRange(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	for _, body := range []map[string]int{
		{"from": -1, "to": 2},
		{"from": 0, "to": 4},
		{"from": 9, "to": 0},
	} {
		req := authedRequest(userID, http.MethodPost, "/api/resumes/"+doc.ID+"/sections/reorder", body)
		req.SetPathValue("id", doc.ID)
		w := httptest.NewRecorder()
		s.handleReorderSections(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
}

func TestHandleToggleSectionVisibility(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")
	target := doc.Sections[2]

	req := authedRequest(userID, http.MethodPost,
		"/api/resumes/"+doc.ID+"/sections/"+target.ID+"/visibility", nil)
	req.SetPathValue("id", doc.ID)
	req.SetPathValue("sectionID", target.ID)
	w := httptest.NewRecorder()
	s.handleToggleSectionVisibility(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated resume.Resume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	for _, sec := range updated.Sections {
		if sec.ID == target.ID {
			assert.False(t, sec.Visible)
		} else {
			assert.True(t, sec.Visible)
		}
	}
}

func TestHandleToggleSectionVisibility_UnknownID(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	req := authedRequest(userID, http.MethodPost,
		"/api/resumes/"+doc.ID+"/sections/"+uuid.New().String()+"/visibility", nil)
	req.SetPathValue("id", doc.ID)
	req.SetPathValue("sectionID", uuid.New().String())
	w := httptest.NewRecorder()
	s.handleToggleSectionVisibility(w, req)

	// Unknown section ids are a no-op, not an error.
	require.Equal(t, http.StatusOK, w.Code)

	var updated resume.Resume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	for _, sec := range updated.Sections {
		assert.True(t, sec.Visible)
	}
}
