package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

func newTestDoc(title string) resume.Resume {
	doc := resume.NewDocument(title)
	doc.PersonalInfo = resume.PersonalInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	}
	return doc
}

func TestMemoryCreateStampsIdentity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := uuid.New()

	doc := newTestDoc("Engineer")
	doc.ID = "client-id"
	doc.UserID = uuid.New()
	doc.CreatedAt = "2001-01-01T00:00:00Z"

	created, err := m.CreateResume(ctx, userID, doc)
	require.NoError(t, err)

	assert.NotEqual(t, "client-id", created.ID)
	require.NoError(t, uuid.Validate(created.ID))
	assert.Equal(t, userID, created.UserID)
	assert.NotEqual(t, "2001-01-01T00:00:00Z", created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestMemoryGetResume(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	userID := uuid.New()

	created, err := m.CreateResume(ctx, userID, newTestDoc("Engineer"))
	require.NoError(t, err)

	got, err := m.GetResume(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Engineer", got.Title)

	missing, err := m.GetResume(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryListResumesScopedToUser(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice := uuid.New()
	bob := uuid.New()

	_, err := m.CreateResume(ctx, alice, newTestDoc("Alice One"))
	require.NoError(t, err)
	_, err = m.CreateResume(ctx, alice, newTestDoc("Alice Two"))
	require.NoError(t, err)
	_, err = m.CreateResume(ctx, bob, newTestDoc("Bob One"))
	require.NoError(t, err)

	got, err := m.ListResumes(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, alice, r.UserID)
	}

	empty, err := m.ListResumes(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryUpdateResumeMergesPatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created, err := m.CreateResume(ctx, uuid.New(), newTestDoc("Engineer"))
	require.NoError(t, err)

	patch := map[string]json.RawMessage{
		"title":  json.RawMessage(`"Staff Engineer"`),
		"id":     json.RawMessage(`"forged"`),
		"userId": json.RawMessage(`"` + uuid.New().String() + `"`),
	}
	updated, err := m.UpdateResume(ctx, created.ID, patch)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "Staff Engineer", updated.Title)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.UserID, updated.UserID)
	// Other fields survive a partial patch.
	assert.Equal(t, "ada@example.com", updated.PersonalInfo.Email)

	missing, err := m.UpdateResume(ctx, uuid.New().String(), patch)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryUpdateResumeRejectsBadPatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created, err := m.CreateResume(ctx, uuid.New(), newTestDoc("Engineer"))
	require.NoError(t, err)

	_, err = m.UpdateResume(ctx, created.ID, map[string]json.RawMessage{
		"workExperience": json.RawMessage(`"not a list"`),
	})
	require.Error(t, err)

	// The stored document is untouched by the failed update.
	got, err := m.GetResume(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Engineer", got.Title)
}

func TestMemoryDeleteResume(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	created, err := m.CreateResume(ctx, uuid.New(), newTestDoc("Engineer"))
	require.NoError(t, err)

	deleted, err := m.DeleteResume(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := m.GetResume(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	again, err := m.DeleteResume(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.CreateUser(ctx, "Ada Lovelace", "ada@example.com", "hashed")
	require.NoError(t, err)

	u, err := m.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "hashed", u.PasswordHash)

	byEmail, err := m.GetUserByEmail(ctx, "ADA@EXAMPLE.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)

	exists, err := m.CheckEmailExists(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = m.CheckEmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	missing, err := m.GetUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
