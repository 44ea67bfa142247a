// Package store defines the persistence ports for resumes and users, with
// an in-memory backend for tests and a PostgreSQL backend for production.
// The API layer depends only on these interfaces, never on a concrete
// backend.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// ResumeStore is the CRUD persistence boundary for resume documents, keyed
// by resume id and scoped by owning user. Lookups that find nothing return
// (nil, nil); last write wins on update, atomic at single-record
// granularity.
type ResumeStore interface {
	ListResumes(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error)
	GetResume(ctx context.Context, id string) (*resume.Resume, error)
	CreateResume(ctx context.Context, userID uuid.UUID, doc resume.Resume) (*resume.Resume, error)
	// UpdateResume applies a shallow top-level merge of patch over the
	// stored document and refreshes updatedAt. Returns (nil, nil) when the
	// id is unknown.
	UpdateResume(ctx context.Context, id string, patch map[string]json.RawMessage) (*resume.Resume, error)
	DeleteResume(ctx context.Context, id string) (bool, error)
}

// User is an account record. The password hash never serializes to JSON.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserStore is the persistence boundary for user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// stampCreate assigns server-side identity to a new document.
func stampCreate(doc *resume.Resume, userID uuid.UUID, now time.Time) {
	doc.ID = uuid.New().String()
	doc.UserID = userID
	doc.CreatedAt = resume.Timestamp(now)
	doc.UpdatedAt = doc.CreatedAt
}
