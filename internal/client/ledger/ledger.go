// Package ledger keeps the bounded, persisted history of upload attempts.
//
// The whole history is stored as one JSON array under a single key of the
// durable key/value store. Entries are kept most recent first and Append
// never leaves more than Capacity items. Reads return what is stored and fail
// open: anything that cannot be decoded is treated as an empty history.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/examkeeper/internal/client/models"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
)

const (
	// StorageKey is the fixed key the history lives under.
	StorageKey = "upload_history_v1"

	// Capacity is the maximum number of retained entries.
	Capacity = 10
)

// ErrPersistence wraps every failure to write the history.
var ErrPersistence = errors.New("upload history not persisted")

// Store is the durable key/value collaborator. Get returns (nil, nil) for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Ledger struct {
	store Store
	log   logging.Logger

	// mu serializes read-modify-write cycles against the store.
	mu sync.Mutex
}

func New(store Store, log logging.Logger) *Ledger {
	return &Ledger{store: store, log: log.With("module", "ledger")}
}

// Load returns the persisted entries, most recent first. It never fails.
func (l *Ledger) Load(ctx context.Context) []models.UploadEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.load(ctx)
}

// Append inserts e at the front and trims the history to Capacity.
func (l *Ledger) Append(ctx context.Context, e models.UploadEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.load(ctx)

	next := make([]models.UploadEntry, 0, min(len(current)+1, Capacity))
	next = append(next, e)
	for _, it := range current {
		if len(next) == Capacity {
			break
		}
		next = append(next, it)
	}

	return l.save(ctx, next)
}

// Clear removes the history. Clearing an empty history is not an error.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// UpdateByID applies patch to the entry with the given id. Unknown ids are
// ignored.
func (l *Ledger) UpdateByID(ctx context.Context, id string, patch models.EntryPatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.load(ctx)
	found := false
	for i := range entries {
		if entries[i].ID == id {
			entries[i] = patch.Apply(entries[i])
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	return l.save(ctx, entries)
}

func (l *Ledger) load(ctx context.Context) []models.UploadEntry {
	raw, err := l.store.Get(ctx, StorageKey)
	if err != nil {
		l.log.Warn(ctx, "history read failed, starting empty", "error", err)
		return []models.UploadEntry{}
	}
	if len(raw) == 0 {
		return []models.UploadEntry{}
	}

	var entries []models.UploadEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		l.log.Warn(ctx, "history is malformed, starting empty", "error", err)
		return []models.UploadEntry{}
	}
	if entries == nil {
		return []models.UploadEntry{}
	}
	return entries
}

func (l *Ledger) save(ctx context.Context, entries []models.UploadEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistence, err)
	}
	if err := l.store.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	l.log.Debug(ctx, "history saved", "entries", len(entries))
	return nil
}
