package client

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMockClient_UploadAndList(t *testing.T) {
	path, content := writePDF(t)
	m := NewMockClient()
	m.now = func() time.Time { return time.UnixMilli(1700000000000) }

	exam, err := m.UploadPdf(context.Background(), path, "glicemia.pdf")
	require.NoError(t, err)
	require.Equal(t, "exam-1700000000000", exam.ID)
	require.Equal(t, MockTitle, exam.Title)
	require.Equal(t, int64(len(content)), exam.Size)

	exams, err := m.ListExams(context.Background())
	require.NoError(t, err)
	require.Len(t, exams, 1)

	got, err := m.GetExam(context.Background(), exam.ID)
	require.NoError(t, err)
	require.Equal(t, "glicemia.pdf", got.FileName)

	_, err = m.GetExam(context.Background(), "exam-0")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, m.Ping(context.Background()))
	require.NoError(t, m.Close())
}

func TestMockClient_ForcedFailure(t *testing.T) {
	path, _ := writePDF(t)
	m := NewMockClient()
	boom := errors.New("network down")

	m.SetFailure(boom)
	_, err := m.UploadPdf(context.Background(), path, "a.pdf")
	require.ErrorIs(t, err, boom)

	m.SetFailure(nil)
	_, err = m.UploadPdf(context.Background(), path, "a.pdf")
	require.NoError(t, err)
}

func TestMockClient_MissingFileIsUnavailable(t *testing.T) {
	m := NewMockClient()
	_, err := m.UploadPdf(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"), "nope.pdf")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestMockClient_DelayHonoursContext(t *testing.T) {
	path, _ := writePDF(t)
	m := NewMockClient()
	m.Delay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.UploadPdf(ctx, path, "a.pdf")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
