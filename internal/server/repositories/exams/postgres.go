package exams

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts exam and fills CollectedAt from the database clock.
func (r *PostgresRepository) Create(ctx context.Context, exam *models.Exam) (*models.Exam, error) {
	query :=
		`INSERT INTO exams (id, user_id, title, lab, file_name, size, digest)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING collected_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		exam.ID, exam.UserID, exam.Title, exam.Lab, exam.FileName, exam.Size, exam.Digest).Scan(&exam.CollectedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return exam, nil
}

func (r *PostgresRepository) CreateFile(ctx context.Context, file *models.ExamFile) error {
	query :=
		`INSERT INTO exam_files (exam_id, backend, storage_key, content_type, size, digest)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	res, err := r.db.ExecContext(ctx, query,
		file.ExamID, file.Backend, file.StorageKey, file.ContentType, file.Size, file.Digest)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Exam, error) {
	query :=
		`SELECT id, user_id, title, lab, file_name, size, digest, collected_at FROM exams
		 WHERE user_id = $1 AND id = $2
		 `

	exam := &models.Exam{}
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&exam.ID, &exam.UserID, &exam.Title, &exam.Lab, &exam.FileName, &exam.Size, &exam.Digest, &exam.CollectedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return exam, nil
}

// ListByUser returns the user's exams, newest first. The result is never nil.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Exam, error) {
	query :=
		`SELECT id, user_id, title, lab, file_name, size, digest, collected_at FROM exams
		 WHERE user_id = $1
		 ORDER BY collected_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select exams: %w", err)
	}
	defer rows.Close()

	result := []*models.Exam{}
	for rows.Next() {
		item := &models.Exam{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Lab, &item.FileName,
			&item.Size, &item.Digest, &item.CollectedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
