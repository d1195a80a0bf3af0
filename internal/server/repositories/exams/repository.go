// Package exams persists intake records: the exam row and the metadata of
// its stored PDF.
package exams

import (
	"context"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, exam *models.Exam) (*models.Exam, error)
	CreateFile(ctx context.Context, file *models.ExamFile) error
	GetByID(ctx context.Context, userID, id string) (*models.Exam, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Exam, error)
}
