package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonkmatsumo/resume-builder/internal/config"
	"github.com/jonkmatsumo/resume-builder/internal/resume"
	"github.com/jonkmatsumo/resume-builder/internal/server/middleware"
	"github.com/jonkmatsumo/resume-builder/internal/store"
	"github.com/jonkmatsumo/resume-builder/internal/suggest"
)

func testServerConfig() *config.Server {
	return &config.Server{
		Port:     0,
		JWT:      &config.JWTConfig{Secret: "test-secret-key", ExpirationHours: 1},
		Password: &config.PasswordConfig{BcryptCost: 10},
	}
}

// newTestServer builds a server on the in-memory store with rate limiting
// disabled.
func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	m := store.NewMemory()
	return newServer(testServerConfig(), m, m, nil), m
}

func newTestServerWithSuggester(t *testing.T, sg suggest.Suggester) (*Server, *store.Memory) {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	m := store.NewMemory()
	return newServer(testServerConfig(), m, m, sg), m
}

// doRequest runs a request through the full middleware-wrapped router.
func doRequest(t *testing.T, s *Server, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// registerUser creates an account through the API and returns its id and token.
func registerUser(t *testing.T, s *Server, email string) (uuid.UUID, string) {
	t.Helper()

	w := doRequest(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.User.ID, resp.Token
}

// authedRequest builds a request that bypasses the router with the user ID
// already on the context, for calling handlers directly.
func authedRequest(userID uuid.UUID, method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

// createResume stores a resume for the user directly through the store.
func createResume(t *testing.T, m *store.Memory, userID uuid.UUID, title string) *resume.Resume {
	t.Helper()

	doc := resume.NewDocument(title)
	doc.PersonalInfo = resume.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	created, err := m.CreateResume(t.Context(), userID, doc)
	require.NoError(t, err)
	return created
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s, _ := newTestServer(t)

	paths := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/resumes"},
		{http.MethodPost, "/api/resumes"},
		{http.MethodGet, "/api/resumes/some-id"},
		{http.MethodPut, "/api/resumes/some-id"},
		{http.MethodDelete, "/api/resumes/some-id"},
		{http.MethodGet, "/api/resumes/some-id/completion"},
		{http.MethodGet, "/api/resumes/some-id/export"},
		{http.MethodPost, "/api/resumes/some-id/sections"},
		{http.MethodGet, "/api/jobs/preview?url=http://example.com"},
		{http.MethodPost, "/api/auth/password"},
	}
	for _, p := range paths {
		w := doRequest(t, s, p.method, p.target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.target)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	}
}

func TestAuthFlowEndToEnd(t *testing.T) {
	s, _ := newTestServer(t)
	_, token := registerUser(t, s, "flow@example.com")

	// The token from register works against protected routes.
	w := doRequest(t, s, http.MethodGet, "/api/resumes", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Login issues a fresh usable token.
	w = doRequest(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "flow@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	w = doRequest(t, s, http.MethodGet, "/api/resumes", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A garbage token does not.
	w = doRequest(t, s, http.MethodGet, "/api/resumes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResumeLifecycleEndToEnd(t *testing.T) {
	s, _ := newTestServer(t)
	_, token := registerUser(t, s, "lifecycle@example.com")

	// Create.
	w := doRequest(t, s, http.MethodPost, "/api/resumes", token, map[string]any{
		"title": "Software Engineer",
		"personalInfo": map[string]string{
			"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created resume.Resume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Len(t, created.Sections, 4)

	// Read.
	w = doRequest(t, s, http.MethodGet, "/api/resumes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Update.
	w = doRequest(t, s, http.MethodPut, "/api/resumes/"+created.ID, token, map[string]string{
		"professionalSummary": "Pioneer of computing.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated resume.Resume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Pioneer of computing.", updated.ProfessionalSummary)
	assert.Equal(t, "Software Engineer", updated.Title)

	// Export.
	w = doRequest(t, s, http.MethodGet, "/api/resumes/"+created.ID+"/export?format=txt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")

	// Delete.
	w = doRequest(t, s, http.MethodDelete, "/api/resumes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/resumes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/resumes", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimitHeadersAndRejection(t *testing.T) {
	// Rate limiting on with the default rules: register has a burst of 3.
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	m := store.NewMemory()
	s := newServer(testServerConfig(), m, m, nil)

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		last = doRequest(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "U", "email": "invalid", "password": "short",
		})
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}
