// Package validator decides whether a picked file may be submitted.
//
// The rules are intentionally permissive on format: a file is accepted as a
// PDF when either its MIME hint mentions "pdf" or its name carries the .pdf
// extension. Size is checked only when known.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/examkeeper/internal/common"
)

var (
	ErrInvalidFormat = errors.New("invalid format: a PDF file is required")
	ErrTooLarge      = errors.New("file too large")
)

// Reason classifies a validation outcome.
type Reason int

const (
	Accepted Reason = iota
	InvalidFormat
	TooLarge
)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case InvalidFormat:
		return "invalid_format"
	case TooLarge:
		return "too_large"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Candidate is what is known about a file at pick time.
type Candidate struct {
	Name     string
	MimeHint string
	Size     *int64
}

// Limits bounds accepted files.
type Limits struct {
	MaxBytes int64
}

// LimitsFromMegabytes converts a megabyte budget (1 MB = 1024*1024 bytes).
func LimitsFromMegabytes(mb int) Limits {
	return Limits{MaxBytes: int64(mb) * 1024 * 1024}
}

// MaxMegabytes is the limit expressed back in whole megabytes, for messages.
func (l Limits) MaxMegabytes() int64 {
	return l.MaxBytes / (1024 * 1024)
}

// Result is the outcome of Classify.
type Result struct {
	Reason Reason
	Limit  Limits
}

// OK reports whether the candidate was accepted.
func (r Result) OK() bool { return r.Reason == Accepted }

// Err returns nil for accepted candidates and a *RejectedError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &RejectedError{Reason: r.Reason, Limit: r.Limit}
}

// RejectedError carries the rejection reason and the limit in force.
// It matches ErrInvalidFormat or ErrTooLarge via errors.Is.
type RejectedError struct {
	Reason Reason
	Limit  Limits
}

func (e *RejectedError) Error() string {
	if e.Reason == TooLarge {
		return fmt.Sprintf("%s: max %d MB", ErrTooLarge, e.Limit.MaxMegabytes())
	}
	return ErrInvalidFormat.Error()
}

func (e *RejectedError) Unwrap() error {
	if e.Reason == TooLarge {
		return ErrTooLarge
	}
	return ErrInvalidFormat
}

// IsPDF applies the format rule alone.
func IsPDF(name, mimeHint string) bool {
	return strings.Contains(strings.ToLower(mimeHint), "pdf") ||
		strings.HasSuffix(strings.ToLower(name), common.PDFExtension)
}

// Classify is a pure function of its inputs. Format is checked before size.
func Classify(c Candidate, l Limits) Result {
	if !IsPDF(c.Name, c.MimeHint) {
		return Result{Reason: InvalidFormat, Limit: l}
	}
	if c.Size != nil && *c.Size > l.MaxBytes {
		return Result{Reason: TooLarge, Limit: l}
	}
	return Result{Reason: Accepted, Limit: l}
}
