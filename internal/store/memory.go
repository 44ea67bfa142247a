package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// Memory is an in-process store backend holding whole documents in
// mutex-guarded maps. It is the test and development backend; it implements
// the same contract as the PostgreSQL backend.
type Memory struct {
	mu      sync.RWMutex
	resumes map[string]resume.Resume
	users   map[uuid.UUID]User
}

var (
	_ ResumeStore = (*Memory)(nil)
	_ UserStore   = (*Memory)(nil)
)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		resumes: make(map[string]resume.Resume),
		users:   make(map[uuid.UUID]User),
	}
}

func (m *Memory) ListResumes(_ context.Context, userID uuid.UUID) ([]resume.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]resume.Resume, 0)
	for _, r := range m.resumes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) GetResume(_ context.Context, id string) (*resume.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) CreateResume(_ context.Context, userID uuid.UUID, doc resume.Resume) (*resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stampCreate(&doc, userID, time.Now())
	m.resumes[doc.ID] = doc
	return &doc, nil
}

func (m *Memory) UpdateResume(_ context.Context, id string, patch map[string]json.RawMessage) (*resume.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	base, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}

	merged, err := resume.Merge(base, patch)
	if err != nil {
		return nil, err
	}
	merged.UpdatedAt = resume.Timestamp(time.Now())

	m.resumes[id] = merged
	return &merged, nil
}

func (m *Memory) DeleteResume(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resumes[id]; !ok {
		return false, nil
	}
	delete(m.resumes, id)
	return true, nil
}

func (m *Memory) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	u := User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *Memory) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Memory) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *Memory) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user not found: %s", id)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	m.users[id] = u
	return nil
}
