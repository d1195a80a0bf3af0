// Package picker resolves a user supplied path into a candidate file.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/examkeeper/internal/client/models"
)

// sniffLen is how many leading bytes are inspected for a MIME hint.
const sniffLen = 512

var ErrNotAFile = errors.New("not a regular file")

// Picker returns nil, nil when the user cancelled the selection.
type Picker interface {
	Pick(ctx context.Context, ref string) (*models.PickedFile, error)
}

// Stater determines a file size on a best-effort basis; nil means unknown.
type Stater interface {
	Stat(ctx context.Context, ref string) *int64
}

// FSPicker picks files from the local filesystem.
type FSPicker struct {
	home func() (string, error)
}

func NewFSPicker() *FSPicker {
	return &FSPicker{home: os.UserHomeDir}
}

func (p *FSPicker) resolve(ref string) (string, error) {
	ref = strings.Trim(strings.TrimSpace(ref), `"'`)
	if ref == "~" || strings.HasPrefix(ref, "~/") {
		home, err := p.home()
		if err != nil {
			return "", err
		}
		ref = filepath.Join(home, strings.TrimPrefix(ref, "~"))
	}
	return filepath.Abs(ref)
}

func (p *FSPicker) Pick(ctx context.Context, ref string) (*models.PickedFile, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := p.resolve(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	size := fi.Size()
	return &models.PickedFile{
		URI:      path,
		Name:     filepath.Base(path),
		Size:     &size,
		MimeHint: http.DetectContentType(head[:n]),
	}, nil
}

// Stat returns nil on any error.
func (p *FSPicker) Stat(ctx context.Context, ref string) *int64 {
	path, err := p.resolve(ref)
	if err != nil {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return nil
	}
	size := fi.Size()
	return &size
}
