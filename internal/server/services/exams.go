// Package services contains server-side business logic. ExamService accepts
// exam PDFs: it re-validates them, stores the bytes in object storage and
// records the exam in PostgreSQL.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/examkeeper/internal/client/validator"
	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/cryptox"
	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/examkeeper/internal/server/storage"
)

// ExamTitle is the title given to every intake until a lab assigns one.
const ExamTitle = "Exam (PDF uploaded)"

var ErrStorage = errors.New("storage error")

// IntakeRequest is one uploaded file. Body must be positioned at the start.
type IntakeRequest struct {
	UserID      string
	FileName    string
	ContentType string
	Lab         string
	// Size is the length the client declared; the stored size is measured.
	Size int64
	Body io.ReadSeeker
}

type ExamService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.BlobStore
	limits      validator.Limits
	log         logging.Logger

	now   func() time.Time
	newID func() string
}

func NewExamService(db *sql.DB, m repomanager.RepositoryManager, store storage.BlobStore,
	limits validator.Limits, log logging.Logger) *ExamService {
	return &ExamService{
		db:          db,
		repomanager: m,
		store:       store,
		limits:      limits,
		log:         log.With("module", "exams"),
		now:         time.Now,
		newID:       func() string { return "exam-" + uuid.NewString() },
	}
}

func (s *ExamService) Limits() validator.Limits { return s.limits }

// Intake validates req, stores its bytes and records the exam. Rejected
// files return a *validator.RejectedError. If the database write fails the
// stored object is removed again.
func (s *ExamService) Intake(ctx context.Context, req IntakeRequest) (*models.Exam, error) {
	size := req.Size
	res := validator.Classify(validator.Candidate{Name: req.FileName, MimeHint: req.ContentType, Size: &size}, s.limits)
	if !res.OK() {
		return nil, res.Err()
	}

	digest, n, err := cryptox.DigestReader(req.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n > s.limits.MaxBytes {
		return nil, validator.Result{Reason: validator.TooLarge, Limit: s.limits}.Err()
	}
	if _, err := req.Body.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	exam := &models.Exam{
		ID:       s.newID(),
		UserID:   req.UserID,
		Title:    ExamTitle,
		Lab:      req.Lab,
		FileName: req.FileName,
		Size:     n,
		Digest:   digest,
	}
	key := storage.ExamKey(req.UserID, exam.ID, s.now().UTC())

	meta := map[string]string{"digest": digest, "file-name": req.FileName}
	if err := s.store.Put(ctx, key, req.Body, n, common.PDFMimeType, meta); err != nil {
		s.log.Error(ctx, "blob put failed", "key", key, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Exams(tx)
		if _, err := repo.Create(ctx, exam); err != nil {
			return err
		}
		return repo.CreateFile(ctx, &models.ExamFile{
			ExamID:      exam.ID,
			Backend:     s.store.Backend(),
			StorageKey:  key,
			ContentType: common.PDFMimeType,
			Size:        n,
			Digest:      digest,
		})
	})
	if err != nil {
		if derr := s.store.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.log.Warn(ctx, "orphaned blob", "key", key, "error", derr)
		}
		return nil, fmt.Errorf("record exam: %w", err)
	}

	s.log.Info(ctx, "exam received", "id", exam.ID, "user", req.UserID, "size", n)
	return exam, nil
}

// List returns the user's exams, newest first.
func (s *ExamService) List(ctx context.Context, userID string) ([]*models.Exam, error) {
	return s.repomanager.Exams(s.db).ListByUser(ctx, userID)
}

// Get returns one of the user's exams or common.ErrorNotFound.
func (s *ExamService) Get(ctx context.Context, userID, id string) (*models.Exam, error) {
	return s.repomanager.Exams(s.db).GetByID(ctx, userID, id)
}
