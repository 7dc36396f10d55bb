package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/allisson/resumes/internal/errors"
	"github.com/allisson/resumes/internal/resume/domain"
)

// MySQLResumeRepository handles resume persistence for MySQL.
type MySQLResumeRepository struct {
	db *sql.DB
}

// NewMySQLResumeRepository creates a new MySQLResumeRepository.
func NewMySQLResumeRepository(db *sql.DB) *MySQLResumeRepository {
	return &MySQLResumeRepository{
		db: db,
	}
}

// GetByID retrieves a resume by ID.
func (r *MySQLResumeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	query := `SELECT id, user_id, slug, title, visibility, password, data, created_at, updated_at
			  FROM resumes WHERE id = ?`

	return r.scanResume(r.db.QueryRowContext(ctx, query, id.String()))
}

// GetByUserAndSlug retrieves a resume by its owner and slug.
func (r *MySQLResumeRepository) GetByUserAndSlug(
	ctx context.Context,
	userID string,
	slug string,
) (*domain.Resume, error) {
	query := `SELECT id, user_id, slug, title, visibility, password, data, created_at, updated_at
			  FROM resumes WHERE user_id = ? AND slug = ?`

	return r.scanResume(r.db.QueryRowContext(ctx, query, userID, slug))
}

// UpdatePassword stores a new password hash for the resume. An empty hash
// clears the password.
func (r *MySQLResumeRepository) UpdatePassword(
	ctx context.Context,
	id uuid.UUID,
	passwordHash string,
) error {
	query := `UPDATE resumes SET password = NULLIF(?, ''), updated_at = NOW() WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id.String())
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
func (r *MySQLResumeRepository) scanResume(row *sql.Row) (*domain.Resume, error) {
	var resume domain.Resume
	var idStr string
	var password sql.NullString

	err := row.Scan(
		&idStr,
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

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse resume id")
	}

	resume.ID = id
	resume.Password = password.String
	return &resume, nil
}
