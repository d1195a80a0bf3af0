package models

import "time"

// Exam is the backend record created by a successful intake.
type Exam struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CollectedAt time.Time `json:"collectedAt"`
	Lab         string    `json:"lab,omitempty"`
	FileName    string    `json:"fileName"`
	Size        int64     `json:"size"`
	Digest      string    `json:"digest,omitempty"`
}
