// Package models defines client-side data models used by the ExamKeeper CLI.
package models

import "time"

// UploadStatus is the terminal state of one submission attempt.
type UploadStatus string

const (
	StatusSent   UploadStatus = "sent"
	StatusFailed UploadStatus = "failed"
)

// UploadEntry is one record of the upload history ledger.
// The JSON layout is the persisted format and must stay stable.
type UploadEntry struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	Name string `json:"name"`

	// Size is nil when the byte count could not be determined.
	Size *int64 `json:"size,omitempty"`

	// URI points at the local source and is what a retry resubmits.
	URI string `json:"uri"`

	UploadedAt time.Time    `json:"uploadedAt"`
	Status     UploadStatus `json:"status"`

	// ErrorMessage is set only for failed entries.
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Retryable reports whether the entry may be resubmitted.
func (e UploadEntry) Retryable() bool {
	return e.Status == StatusFailed
}

// EntryPatch is a partial update for an existing entry. Nil fields are left
// unchanged. The entry ID is never patched.
type EntryPatch struct {
	Name         *string
	Size         *int64
	URI          *string
	Status       *UploadStatus
	ErrorMessage *string
}

// Apply returns e with the non-nil patch fields copied in.
func (p EntryPatch) Apply(e UploadEntry) UploadEntry {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Size != nil {
		v := *p.Size
		e.Size = &v
	}
	if p.URI != nil {
		e.URI = *p.URI
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.ErrorMessage != nil {
		e.ErrorMessage = *p.ErrorMessage
	}
	return e
}

// PickedFile is the candidate currently selected for submission.
type PickedFile struct {
	URI      string
	Name     string
	Size     *int64
	MimeHint string
}
