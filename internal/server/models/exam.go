// Package models defines server-side data models persisted in the database.
package models

import "time"

// Exam is one lab-exam intake. It is the JSON body returned to clients.
type Exam struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	CollectedAt time.Time `json:"collectedAt"`
	Lab         string    `json:"lab,omitempty"`
	FileName    string    `json:"fileName"`
	Size        int64     `json:"size"`
	Digest      string    `json:"digest,omitempty"`
}

// ExamFile describes where an exam's PDF lives in object storage.
type ExamFile struct {
	// ExamID links the file to its parent exam.
	ExamID string
	// Backend is the storage backend name ("s3" or "gcs").
	Backend string
	// StorageKey is the object key (path) of the blob.
	StorageKey string
	// ContentType is always application/pdf for accepted intakes.
	ContentType string
	Size        int64
	// Digest is the hex blake2b-256 of the stored bytes.
	Digest string
}
