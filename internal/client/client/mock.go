package client

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/client/models"
)

// MockTitle is the title given to every exam created by MockClient.
const MockTitle = "Exam (PDF uploaded)"

// MockClient is an in-memory backend used in "mock" mode and in tests.
type MockClient struct {
	mu    sync.Mutex
	exams []*models.Exam

	// Delay simulates network latency on uploads.
	Delay time.Duration
	// FailWith, when set, makes every upload fail with this error.
	FailWith error

	now func() time.Time
}

func NewMockClient() *MockClient {
	return &MockClient{now: time.Now}
}

func (m *MockClient) Close() error { return nil }

func (m *MockClient) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MockClient) UploadPdf(ctx context.Context, ref, name string) (*models.Exam, error) {
	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	m.mu.Lock()
	failWith := m.FailWith
	m.mu.Unlock()
	if failWith != nil {
		return nil, failWith
	}

	fi, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	now := m.now()
	exam := &models.Exam{
		ID:          fmt.Sprintf("exam-%d", now.UnixMilli()),
		Title:       MockTitle,
		CollectedAt: now,
		FileName:    name,
		Size:        fi.Size(),
	}

	m.mu.Lock()
	m.exams = append([]*models.Exam{exam}, m.exams...)
	m.mu.Unlock()

	return exam, nil
}

// SetFailure switches forced failures on (err != nil) or off.
func (m *MockClient) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailWith = err
}

func (m *MockClient) ListExams(ctx context.Context) ([]*models.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.Exam, len(m.exams))
	copy(out, m.exams)
	return out, nil
}

func (m *MockClient) GetExam(ctx context.Context, id string) (*models.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.exams {
		if e.ID == id {
			out := *e
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
