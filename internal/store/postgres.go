package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonkmatsumo/resume-builder/internal/resume"
)

// Postgres is the production store backend. Each resume is persisted as a
// whole jsonb document alongside duplicated id/user_id/title/job_url and
// timestamp columns for indexing.
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ ResumeStore = (*Postgres)(nil)
	_ UserStore   = (*Postgres)(nil)
)

// Connect establishes a connection pool to the database and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			job_url TEXT,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resumes_user_id ON resumes(user_id)`,
	}
	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (p *Postgres) ListResumes(ctx context.Context, userID uuid.UUID) ([]resume.Resume, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT data FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	out := make([]resume.Resume, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		var r resume.Resume
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to decode resume document: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) GetResume(ctx context.Context, id string) (*resume.Resume, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM resumes WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	var r resume.Resume
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode resume document: %w", err)
	}
	return &r, nil
}

func (p *Postgres) CreateResume(ctx context.Context, userID uuid.UUID, doc resume.Resume) (*resume.Resume, error) {
	stampCreate(&doc, userID, time.Now())

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resume document: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO resumes (id, user_id, title, job_url, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		doc.ID, doc.UserID, doc.Title, doc.JobURL, data,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return &doc, nil
}

func (p *Postgres) UpdateResume(ctx context.Context, id string, patch map[string]json.RawMessage) (*resume.Resume, error) {
	base, err := p.GetResume(ctx, id)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, nil
	}

	merged, err := resume.Merge(*base, patch)
	if err != nil {
		return nil, err
	}
	merged.UpdatedAt = resume.Timestamp(time.Now())

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resume document: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`UPDATE resumes SET title = $1, job_url = $2, data = $3, updated_at = NOW() WHERE id = $4`,
		merged.Title, merged.JobURL, data, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return &merged, nil
}

func (p *Postgres) DeleteResume(ctx context.Context, id string) (bool, error) {
	result, err := p.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (p *Postgres) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

func (p *Postgres) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE LOWER(email) = LOWER($1)`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (p *Postgres) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := p.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

func (p *Postgres) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}
