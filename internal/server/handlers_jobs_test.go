package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonkmatsumo/resume-builder/internal/fetch"
	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

func TestHandleJobPreview(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:title" content="Senior Gopher">
			<meta property="og:description" content="Write Go all day.">
		</head></html>`))
	}))
	defer posting.Close()

	s, _ := newTestServer(t)

	req := authedRequest(uuid.New(), http.MethodGet, "/api/jobs/preview?url="+posting.URL, nil)
	w := httptest.NewRecorder()
	s.handleJobPreview(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var preview fetch.Preview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Equal(t, "Senior Gopher", preview.Title)
	assert.Equal(t, "Write Go all day.", preview.Description)
}

func TestHandleJobPreview_MissingURL(t *testing.T) {
	s, _ := newTestServer(t)

	req := authedRequest(uuid.New(), http.MethodGet, "/api/jobs/preview", nil)
	w := httptest.NewRecorder()
	s.handleJobPreview(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "url query parameter is required")
}

func TestHandleJobPreview_InvalidURL(t *testing.T) {
	s, _ := newTestServer(t)

	req := authedRequest(uuid.New(), http.MethodGet, "/api/jobs/preview?url=not-a-url", nil)
	w := httptest.NewRecorder()
	s.handleJobPreview(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid job posting URL")
}

func TestHandleJobPreview_UpstreamFailure(t *testing.T) {
	posting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer posting.Close()

	s, _ := newTestServer(t)

	req := authedRequest(uuid.New(), http.MethodGet, "/api/jobs/preview?url="+posting.URL, nil)
	w := httptest.NewRecorder()
	s.handleJobPreview(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

type stubSuggester struct {
	summary string
	err     error
}

func (s *stubSuggester) SuggestSummary(_ context.Context, _ *resume.Resume) (string, error) {
	return s.summary, s.err
}

func (s *stubSuggester) Close() error { return nil }

func TestHandleSuggestSummary(t *testing.T) {
	s, m := newTestServerWithSuggester(t, &stubSuggester{summary: "Seasoned engineer."})
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	req := authedRequest(userID, http.MethodPost, "/api/resumes/"+doc.ID+"/suggest-summary", nil)
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleSuggestSummary(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"suggestion":"Seasoned engineer."}`, w.Body.String())
}

func TestHandleSuggestSummary_NotConfigured(t *testing.T) {
	s, m := newTestServer(t)
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	req := authedRequest(userID, http.MethodPost, "/api/resumes/"+doc.ID+"/suggest-summary", nil)
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleSuggestSummary(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleSuggestSummary_ModelFailure(t *testing.T) {
	s, m := newTestServerWithSuggester(t, &stubSuggester{err: fmt.Errorf("quota exceeded")})
	userID := uuid.New()
	doc := createResume(t, m, userID, "Engineer")

	req := authedRequest(userID, http.MethodPost, "/api/resumes/"+doc.ID+"/suggest-summary", nil)
	req.SetPathValue("id", doc.ID)
	w := httptest.NewRecorder()
	s.handleSuggestSummary(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	// The upstream error detail is not leaked.
	assert.NotContains(t, w.Body.String(), "quota")
}
