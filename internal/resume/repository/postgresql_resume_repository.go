// Package repository provides data persistence implementations for resume entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/resume/domain"
)

// PostgreSQLResumeRepository handles resume persistence for PostgreSQL.
type PostgreSQLResumeRepository struct {
	db *sql.DB
}

// NewPostgreSQLResumeRepository creates a new PostgreSQLResumeRepository.
func NewPostgreSQLResumeRepository(db *sql.DB) *PostgreSQLResumeRepository {
	return &PostgreSQLResumeRepository{
		db: db,
	}
}

// GetByID retrieves a resume by ID.
func (r *PostgreSQLResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	query := `SELECT id, user_id, slug, title, visibility, password, data, created_at, updated_at
			  FROM resumes WHERE id = $1`

	return r.scanResume(r.db.QueryRowContext(ctx, query, id))
}

// GetByUserAndSlug retrieves a resume by its owner and slug, the shape of
// the public document route.
func (r *PostgreSQLResumeRepository) GetByUserAndSlug(
	ctx context.Context,
	userID string,
	slug string,
) (*domain.Resume, error) {
	query := `SELECT id, user_id, slug, title, visibility, password, data, created_at, updated_at
			  FROM resumes WHERE user_id = $1 AND slug = $2`

	return r.scanResume(r.db.QueryRowContext(ctx, query, userID, slug))
}

// UpdatePassword stores a new password hash for the resume. An empty hash
// clears the password, which implicitly invalidates every previously
// issued access cookie.
func (r *PostgreSQLResumeRepository) UpdatePassword(
	ctx context.Context,
	id uuid.UUID,
	passwordHash string,
) error {
	query := `UPDATE resumes SET password = NULLIF($2, ''), updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return apperrors.Wrap(err, "failed to update resume password")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrResumeNotFound
	}

	return nil
}

// scanResume maps a row to a domain resume, normalizing a NULL password
// to the empty string.
func (r *PostgreSQLResumeRepository) scanResume(row *sql.Row) (*domain.Resume, error) {
	var resume domain.Resume
	var password sql.NullString

	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Slug,
		&resume.Title,
		&resume.Visibility,
		&password,
		&resume.Data,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResumeNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get resume")
	}

	resume.Password = password.String
	return &resume, nil
}
