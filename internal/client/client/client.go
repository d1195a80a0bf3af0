package client

import (
	"context"

	"github.com/dmitrijs2005/examkeeper/internal/client/models"
)

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Client interface {
	Pinger
	Close() error
	// UploadPdf submits the file at ref under the display name. It is not
	// idempotent and must not be retried implicitly.
	UploadPdf(ctx context.Context, ref, name string) (*models.Exam, error)
	ListExams(ctx context.Context) ([]*models.Exam, error)
	// GetExam returns ErrNotFound for an id the backend does not know.
	GetExam(ctx context.Context, id string) (*models.Exam, error)
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
