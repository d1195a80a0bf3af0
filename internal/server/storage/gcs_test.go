package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	gcs "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type memWriter struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (w *memWriter) Close() error {
	w.closed = true
	return w.closeErr
}

type gcsFake struct {
	objects     map[string]*memWriter
	contentType string
	meta        map[string]string
	sizeDelta   int64
	attrsErr    error
	deleted     []string
}

func withGCSSeams(t *testing.T, f *gcsFake) {
	t.Helper()
	origOpen, origSize, origDelete := openGCSWriter, gcsObjectSize, deleteGCSObject
	t.Cleanup(func() { openGCSWriter, gcsObjectSize, deleteGCSObject = origOpen, origSize, origDelete })

	f.objects = map[string]*memWriter{}
	openGCSWriter = func(ctx context.Context, c *gcs.Client, bucket, name, contentType string, meta map[string]string) io.WriteCloser {
		w := &memWriter{}
		f.objects[bucket+"/"+name] = w
		f.contentType = contentType
		f.meta = meta
		return w
	}
	gcsObjectSize = func(ctx context.Context, c *gcs.Client, bucket, name string) (int64, error) {
		if f.attrsErr != nil {
			return 0, f.attrsErr
		}
		return int64(f.objects[bucket+"/"+name].Len()) + f.sizeDelta, nil
	}
	deleteGCSObject = func(ctx context.Context, c *gcs.Client, bucket, name string) error {
		f.deleted = append(f.deleted, bucket+"/"+name)
		return nil
	}
}

func TestGCSStore_Put(t *testing.T) {
	f := &gcsFake{}
	withGCSSeams(t, f)
	st := &GCSStore{bucket: "lab", prefix: "exams"}

	err := st.Put(context.Background(), "users/u1/exam-1.pdf", strings.NewReader("%PDF-1.4"), 8,
		"application/pdf", map[string]string{"digest": "ab"})
	require.NoError(t, err)

	w := f.objects["lab/exams/users/u1/exam-1.pdf"]
	require.NotNil(t, w)
	assert.Equal(t, "%PDF-1.4", w.String())
	assert.True(t, w.closed)
	assert.Equal(t, "application/pdf", f.contentType)
	assert.Equal(t, "ab", f.meta["digest"])
	assert.Equal(t, "gcs", st.Backend())
}

func TestGCSStore_PutFailures(t *testing.T) {
	t.Run("size mismatch", func(t *testing.T) {
		f := &gcsFake{sizeDelta: -1}
		withGCSSeams(t, f)
		st := &GCSStore{bucket: "lab"}

		err := st.Put(context.Background(), "k.pdf", strings.NewReader("abc"), 3, "application/pdf", nil)
		assert.ErrorIs(t, err, ErrSizeMismatch)
	})

	t.Run("attrs error", func(t *testing.T) {
		boom := errors.New("attrs")
		f := &gcsFake{attrsErr: boom}
		withGCSSeams(t, f)
		st := &GCSStore{bucket: "lab"}

		err := st.Put(context.Background(), "k.pdf", strings.NewReader("abc"), 3, "application/pdf", nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("close error", func(t *testing.T) {
		boom := errors.New("close")
		origOpen := openGCSWriter
		t.Cleanup(func() { openGCSWriter = origOpen })
		openGCSWriter = func(context.Context, *gcs.Client, string, string, string, map[string]string) io.WriteCloser {
			return &memWriter{closeErr: boom}
		}
		st := &GCSStore{bucket: "lab"}

		err := st.Put(context.Background(), "k.pdf", strings.NewReader("abc"), 3, "application/pdf", nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("read error", func(t *testing.T) {
		f := &gcsFake{}
		withGCSSeams(t, f)
		st := &GCSStore{bucket: "lab"}
		boom := errors.New("read")

		err := st.Put(context.Background(), "k.pdf", io.MultiReader(strings.NewReader("a"), errReader{boom}), 3, "application/pdf", nil)
		assert.ErrorIs(t, err, boom)
		assert.True(t, f.objects["lab/k.pdf"].closed)
	})
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestGCSStore_Delete(t *testing.T) {
	f := &gcsFake{}
	withGCSSeams(t, f)
	st := &GCSStore{bucket: "lab", prefix: "exams"}

	require.NoError(t, st.Delete(context.Background(), "users/u1/exam-1.pdf"))
	assert.Equal(t, []string{"lab/exams/users/u1/exam-1.pdf"}, f.deleted)
}

func TestNewGCSStore(t *testing.T) {
	orig := newGCSClient
	t.Cleanup(func() { newGCSClient = orig })

	var gotOpts int
	newGCSClient = func(ctx context.Context, opts ...option.ClientOption) (*gcs.Client, error) {
		gotOpts = len(opts)
		return nil, nil
	}

	st, err := NewGCSStore(context.Background(), "lab", "exams", "/etc/sa.json")
	require.NoError(t, err)
	assert.Equal(t, 1, gotOpts)
	assert.NoError(t, st.Close())

	_, err = NewGCSStore(context.Background(), "lab", "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, gotOpts)

	newGCSClient = func(context.Context, ...option.ClientOption) (*gcs.Client, error) {
		return nil, errors.New("no creds")
	}
	_, err = NewGCSStore(context.Background(), "lab", "", "")
	assert.Error(t, err)
}
