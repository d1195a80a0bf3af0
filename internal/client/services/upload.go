// Package services contains application services for the ExamKeeper client.
// This file defines the upload workflow: pick, validate, submit, record and
// retry, with the in-memory history mirror kept in step with the ledger.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/examkeeper/internal/client/i18n"
	"github.com/dmitrijs2005/examkeeper/internal/client/ledger"
	"github.com/dmitrijs2005/examkeeper/internal/client/models"
	"github.com/dmitrijs2005/examkeeper/internal/client/picker"
	"github.com/dmitrijs2005/examkeeper/internal/client/validator"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
)

var (
	ErrBusy           = errors.New("an upload is already in progress")
	ErrNoFile         = errors.New("no file selected")
	ErrNotFound       = errors.New("upload not found")
	ErrNotRetryable   = errors.New("upload is not retryable")
	ErrTransportPanic = errors.New("transport panicked")
)

// Uploader is the part of the transport the workflow needs.
type Uploader interface {
	UploadPdf(ctx context.Context, ref, name string) (*models.Exam, error)
}

// HistoryLedger is the durable, bounded upload history.
type HistoryLedger interface {
	Load(ctx context.Context) []models.UploadEntry
	Append(ctx context.Context, e models.UploadEntry) error
	Clear(ctx context.Context) error
}

var _ HistoryLedger = (*ledger.Ledger)(nil)

// Outcome describes one finished submission attempt. Entry is the record
// that was (or was meant to be) appended to the history.
type Outcome struct {
	Entry        models.UploadEntry
	Receipt      *models.Exam
	TransportErr error
}

// Sent reports whether the transport accepted the file.
func (o Outcome) Sent() bool { return o.TransportErr == nil }

// UploadService drives the upload workflow.
//
// Contract:
//   - Activate: rehydrate the history mirror from durable storage.
//   - Pick: select and validate a candidate; rejected candidates are dropped.
//   - Submit/SubmitFile: exactly one history record per attempt. The returned
//     error is non-nil only when the record could not be persisted (or the
//     attempt was not started at all: ErrBusy, ErrNoFile).
//   - Retry: resubmit a failed record as a new attempt.
//   - Clear: wipe the history.
type UploadService interface {
	Activate(ctx context.Context) []models.UploadEntry
	Pick(ctx context.Context, ref string) (*models.PickedFile, error)
	Picked() *models.PickedFile
	Discard()
	Submit(ctx context.Context) (Outcome, error)
	SubmitFile(ctx context.Context, f models.PickedFile) (Outcome, error)
	Retry(ctx context.Context, id string) (Outcome, error)
	Clear(ctx context.Context) error
	History() []models.UploadEntry
	Limits() validator.Limits
}

type UploadDeps struct {
	Uploader Uploader
	Ledger   HistoryLedger
	Picker   picker.Picker
	Stater   picker.Stater
	Limits   validator.Limits

	Notifier Notifier
	Events   EventSink
	Messages *i18n.Translator
	Log      logging.Logger

	Now   func() time.Time
	NewID func() string
}

type uploadService struct {
	deps UploadDeps
	log  logging.Logger

	inflight atomic.Bool

	mu      sync.Mutex
	history []models.UploadEntry
	picked  *models.PickedFile
}

func NewUploadService(deps UploadDeps) UploadService {
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Events == nil {
		deps.Events = NoopSink{}
	}
	if deps.Messages == nil {
		deps.Messages = i18n.New(i18n.Default)
	}
	if deps.Log == nil {
		deps.Log = logging.NewNopLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return "upload-" + uuid.NewString() }
	}
	return &uploadService{
		deps:    deps,
		log:     deps.Log.With("module", "upload"),
		history: []models.UploadEntry{},
	}
}

func (s *uploadService) Limits() validator.Limits { return s.deps.Limits }

func (s *uploadService) Activate(ctx context.Context) []models.UploadEntry {
	entries := s.deps.Ledger.Load(ctx)
	if len(entries) > ledger.Capacity {
		entries = entries[:ledger.Capacity]
	}

	s.mu.Lock()
	s.history = entries
	s.mu.Unlock()

	return s.History()
}

func (s *uploadService) History() []models.UploadEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.UploadEntry, len(s.history))
	copy(out, s.history)
	return out
}

func (s *uploadService) Picked() *models.PickedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.picked == nil {
		return nil
	}
	p := *s.picked
	return &p
}

func (s *uploadService) setPicked(p *models.PickedFile) {
	s.mu.Lock()
	s.picked = p
	s.mu.Unlock()
}

func (s *uploadService) Discard() { s.setPicked(nil) }

func (s *uploadService) Pick(ctx context.Context, ref string) (*models.PickedFile, error) {
	s.track(ctx, EventOpenPicker, nil)

	p, err := s.deps.Picker.Pick(ctx, ref)
	if err != nil {
		s.log.Warn(ctx, "pick failed", "error", err)
		s.deps.Notifier.Notify(NoticeError, s.deps.Messages.T("error_msg"))
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	if p.Size == nil && s.deps.Stater != nil {
		p.Size = s.deps.Stater.Stat(ctx, p.URI)
	}

	res := validator.Classify(validator.Candidate{Name: p.Name, MimeHint: p.MimeHint, Size: p.Size}, s.deps.Limits)
	if !res.OK() {
		s.setPicked(nil)
		s.deps.Notifier.Notify(NoticeError, s.rejectionMessage(res))
		return nil, res.Err()
	}

	s.setPicked(p)
	s.track(ctx, EventSelected, Params{"size": sizeOrZero(p.Size)})

	out := *p
	return &out, nil
}

func (s *uploadService) rejectionMessage(res validator.Result) string {
	if res.Reason == validator.TooLarge {
		return s.deps.Messages.T("too_large", i18n.Vars{"max": res.Limit.MaxMegabytes()})
	}
	return s.deps.Messages.T("invalid_format")
}

func (s *uploadService) Submit(ctx context.Context) (Outcome, error) {
	p := s.Picked()
	if p == nil {
		s.deps.Notifier.Notify(NoticeInfo, s.deps.Messages.T("no_file"))
		return Outcome{}, ErrNoFile
	}
	return s.SubmitFile(ctx, *p)
}

func (s *uploadService) SubmitFile(ctx context.Context, f models.PickedFile) (Outcome, error) {
	if !s.inflight.CompareAndSwap(false, true) {
		s.deps.Notifier.Notify(NoticeInfo, s.deps.Messages.T("busy"))
		return Outcome{}, ErrBusy
	}
	defer s.inflight.Store(false)

	receipt, terr := s.transmit(ctx, f)

	entry := models.UploadEntry{
		ID:         s.deps.NewID(),
		Name:       f.Name,
		Size:       f.Size,
		URI:        f.URI,
		UploadedAt: s.deps.Now().UTC(),
		Status:     models.StatusSent,
	}
	if terr != nil {
		entry.Status = models.StatusFailed
		entry.ErrorMessage = s.deps.Messages.T("failed_entry")
	}
	out := Outcome{Entry: entry, Receipt: receipt, TransportErr: terr}

	if terr == nil {
		s.track(ctx, EventSent, Params{"size": sizeOrZero(f.Size)})
		s.log.Info(ctx, "upload sent", "id", entry.ID)
	} else {
		s.track(ctx, EventFailed, Params{"reason": "network", "size": sizeOrZero(f.Size)})
		s.log.Warn(ctx, "upload failed", "id", entry.ID, "error", terr)
	}

	// The attempt has happened; record it even if the caller gave up.
	if err := s.deps.Ledger.Append(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error(ctx, "history append failed", "id", entry.ID, "error", err)
		s.notifyOutcome(out)
		s.deps.Notifier.Notify(NoticeError, s.deps.Messages.T("persist_failed"))
		return out, err
	}

	s.mu.Lock()
	next := make([]models.UploadEntry, 0, ledger.Capacity)
	next = append(next, entry)
	for _, e := range s.history {
		if len(next) == ledger.Capacity {
			break
		}
		next = append(next, e)
	}
	s.history = next
	if terr == nil {
		s.picked = nil
	}
	s.mu.Unlock()

	s.notifyOutcome(out)
	return out, nil
}

func (s *uploadService) notifyOutcome(out Outcome) {
	if out.Sent() {
		s.deps.Notifier.Notify(NoticeSuccess, s.deps.Messages.T("success_msg"))
		return
	}
	s.deps.Notifier.Notify(NoticeError, s.deps.Messages.T("error_msg"))
}

// transmit calls the transport, turning a panic into an ordinary failure.
func (s *uploadService) transmit(ctx context.Context, f models.PickedFile) (exam *models.Exam, err error) {
	defer func() {
		if r := recover(); r != nil {
			exam = nil
			err = fmt.Errorf("%w: %v", ErrTransportPanic, r)
		}
	}()
	return s.deps.Uploader.UploadPdf(ctx, f.URI, f.Name)
}

func (s *uploadService) Retry(ctx context.Context, id string) (Outcome, error) {
	var found *models.UploadEntry
	s.mu.Lock()
	for i := range s.history {
		if s.history[i].ID == id {
			e := s.history[i]
			found = &e
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		s.deps.Notifier.Notify(NoticeError, s.deps.Messages.T("not_found", i18n.Vars{"id": id}))
		return Outcome{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !found.Retryable() {
		s.deps.Notifier.Notify(NoticeInfo, s.deps.Messages.T("not_retryable", i18n.Vars{"id": id}))
		return Outcome{}, fmt.Errorf("%w: %s", ErrNotRetryable, id)
	}

	f := models.PickedFile{URI: found.URI, Name: found.Name, Size: found.Size}
	s.setPicked(&f)
	s.track(ctx, EventRetry, nil)

	return s.SubmitFile(ctx, f)
}

func (s *uploadService) Clear(ctx context.Context) error {
	if err := s.deps.Ledger.Clear(ctx); err != nil {
		s.log.Error(ctx, "history clear failed", "error", err)
		s.deps.Notifier.Notify(NoticeError, s.deps.Messages.T("persist_failed"))
		return err
	}

	s.mu.Lock()
	s.history = []models.UploadEntry{}
	s.mu.Unlock()

	s.track(ctx, EventCleared, nil)
	s.deps.Notifier.Notify(NoticeInfo, s.deps.Messages.T("cleared"))
	return nil
}

// track never lets telemetry interfere with the workflow.
func (s *uploadService) track(ctx context.Context, ev Event, p Params) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn(ctx, "telemetry sink panicked", "event", string(ev), "panic", r)
		}
	}()
	s.deps.Events.Track(ctx, ev, Sanitize(p))
}

func sizeOrZero(size *int64) int64 {
	if size == nil {
		return 0
	}
	return *size
}
