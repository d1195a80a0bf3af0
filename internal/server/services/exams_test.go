package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/examkeeper/internal/client/validator"
	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/cryptox"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/repomanager"
)

type fakeStore struct {
	puts    map[string][]byte
	meta    map[string]string
	deleted []string
	putErr  error
}

func newFakeStore() *fakeStore { return &fakeStore{puts: map[string][]byte{}} }

func (f *fakeStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, meta map[string]string) error {
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.puts[key] = b
	f.meta = meta
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) Backend() string { return "fake" }

var fixedNow = time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)

const wantKey = "users/u1/2026/03/07/exam-1.pdf"

func newExamService(t *testing.T, store *fakeStore, maxMB int) (*ExamService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewExamService(db, repomanager.NewPostgresRepositoryManager(), store,
		validator.LimitsFromMegabytes(maxMB), logging.NewNopLogger())
	s.now = func() time.Time { return fixedNow }
	s.newID = func() string { return "exam-1" }
	return s, mock
}

func pdfRequest(body string) IntakeRequest {
	return IntakeRequest{
		UserID:      "u1",
		FileName:    "hemograma.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func digestOf(t *testing.T, s string) string {
	t.Helper()
	d, _, err := cryptox.DigestReader(strings.NewReader(s))
	require.NoError(t, err)
	return d
}

func TestIntake_Success(t *testing.T) {
	store := newFakeStore()
	s, mock := newExamService(t, store, 15)
	body := "%PDF-1.7 exam"
	digest := digestOf(t, body)
	size := int64(len(body))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO exams`).
		WithArgs("exam-1", "u1", ExamTitle, "", "hemograma.pdf", size, digest).
		WillReturnRows(sqlmock.NewRows([]string{"collected_at"}).AddRow(fixedNow))
	mock.ExpectExec(`INSERT INTO exam_files`).
		WithArgs("exam-1", "fake", wantKey, "application/pdf", size, digest).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	exam, err := s.Intake(context.Background(), pdfRequest(body))
	require.NoError(t, err)

	assert.Equal(t, "exam-1", exam.ID)
	assert.Equal(t, ExamTitle, exam.Title)
	assert.Equal(t, size, exam.Size)
	assert.Equal(t, digest, exam.Digest)
	assert.Equal(t, fixedNow, exam.CollectedAt)
	assert.Equal(t, []byte(body), store.puts[wantKey])
	assert.Equal(t, digest, store.meta["digest"])
	assert.Empty(t, store.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntake_Rejections(t *testing.T) {
	big := strings.Repeat("x", 1024*1024+1)

	tests := []struct {
		name    string
		req     IntakeRequest
		wantErr error
	}{
		{
			name:    "not a pdf",
			req:     IntakeRequest{UserID: "u1", FileName: "photo.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")},
			wantErr: validator.ErrInvalidFormat,
		},
		{
			name:    "declared too large",
			req:     IntakeRequest{UserID: "u1", FileName: "a.pdf", Size: 2 * 1024 * 1024, Body: strings.NewReader("x")},
			wantErr: validator.ErrTooLarge,
		},
		{
			name:    "measured too large",
			req:     IntakeRequest{UserID: "u1", FileName: "a.pdf", Size: 10, Body: strings.NewReader(big)},
			wantErr: validator.ErrTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			s, mock := newExamService(t, store, 1)

			_, err := s.Intake(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)

			var rej *validator.RejectedError
			assert.ErrorAs(t, err, &rej)
			assert.Empty(t, store.puts)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIntake_MimeOrNameIsEnough(t *testing.T) {
	store := newFakeStore()
	s, mock := newExamService(t, store, 15)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO exams`).WillReturnRows(sqlmock.NewRows([]string{"collected_at"}).AddRow(fixedNow))
	mock.ExpectExec(`INSERT INTO exam_files`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := pdfRequest("%PDF")
	req.FileName = "scan"
	_, err := s.Intake(context.Background(), req)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntake_StorageError(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("bucket gone")
	s, mock := newExamService(t, store, 15)

	_, err := s.Intake(context.Background(), pdfRequest("%PDF"))
	assert.ErrorIs(t, err, ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntake_DatabaseErrorRemovesBlob(t *testing.T) {
	store := newFakeStore()
	s, mock := newExamService(t, store, 15)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO exams`).WillReturnRows(sqlmock.NewRows([]string{"collected_at"}).AddRow(fixedNow))
	mock.ExpectExec(`INSERT INTO exam_files`).WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	_, err := s.Intake(context.Background(), pdfRequest("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record exam")
	assert.Equal(t, []string{wantKey}, store.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type brokenReader struct{ err error }

func (b brokenReader) Read([]byte) (int, error)      { return 0, b.err }
func (b brokenReader) Seek(int64, int) (int64, error) { return 0, nil }

func TestIntake_ReadError(t *testing.T) {
	s, _ := newExamService(t, newFakeStore(), 15)
	boom := errors.New("client went away")

	req := pdfRequest("")
	req.Body = brokenReader{err: boom}

	_, err := s.Intake(context.Background(), req)
	assert.ErrorIs(t, err, boom)
}

func TestList(t *testing.T) {
	s, mock := newExamService(t, newFakeStore(), 15)

	mock.ExpectQuery(`SELECT .* FROM exams`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "lab", "file_name", "size", "digest", "collected_at"}).
			AddRow("exam-1", "u1", ExamTitle, "", "a.pdf", int64(4), "dd", fixedNow))

	got, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a.pdf", got[0].FileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	s, mock := newExamService(t, newFakeStore(), 15)

	mock.ExpectQuery(`SELECT .* FROM exams`).WithArgs("u1", "nope").WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
