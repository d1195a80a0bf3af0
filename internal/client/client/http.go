package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/examkeeper/internal/client/models"
	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/cryptox"
	"github.com/dmitrijs2005/examkeeper/internal/netx"
)

const (
	uploadPath = "/api/v1/exams/files"
	examsPath  = "/api/v1/exams"
	healthPath = "/health"
)

type HTTPOptions struct {
	BaseURL string
	Token   string

	// Timeout bounds a whole call, retries included.
	Timeout time.Duration

	// RetryAttempts is how many times a failed GET is repeated.
	RetryAttempts int
	// RetryDelay is multiplied by the attempt number between retries.
	RetryDelay time.Duration

	HTTP *http.Client
}

type HTTPClient struct {
	baseURL    string
	token      string
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
	http       *http.Client
}

func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		timeout:    opts.Timeout,
		attempts:   opts.RetryAttempts,
		retryDelay: opts.RetryDelay,
		http:       opts.HTTP,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.retryDelay <= 0 {
		c.retryDelay = 300 * time.Millisecond
	}
	return c
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}
}

func (c *HTTPClient) UploadPdf(ctx context.Context, ref, name string) (*models.Exam, error) {
	digest, _, err := cryptox.DigestFile(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := netx.NewMultipartUpload(ctx, c.baseURL+uploadPath, common.UploadFormField, name, common.PDFMimeType, f)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	if err := netx.CheckResponse(resp); err != nil {
		return nil, mapError(err)
	}

	var exam models.Exam
	if err := json.NewDecoder(resp.Body).Decode(&exam); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	remote := resp.Header.Get(common.DigestHeaderName)
	if remote == "" {
		remote = exam.Digest
	}
	if remote != "" && remote != digest {
		return nil, fmt.Errorf("%w: local %s, server %s", ErrDigestMismatch, digest, remote)
	}

	return &exam, nil
}

func (c *HTTPClient) ListExams(ctx context.Context) ([]*models.Exam, error) {
	var exams []*models.Exam
	err := c.getJSON(ctx, examsPath, &exams)
	if err != nil {
		return nil, err
	}
	return exams, nil
}

func (c *HTTPClient) GetExam(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	if err := c.getJSON(ctx, examsPath+"/"+url.PathEscape(id), &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.getJSON(ctx, healthPath, nil)
}

// getJSON performs an idempotent GET, retrying transient failures.
func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		err := c.get(ctx, path, out)
		if errors.Is(err, ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return mapError(err)
	}
	defer resp.Body.Close()

	if err := netx.CheckResponse(resp); err != nil {
		return mapError(err)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// backoff waits RetryDelay*attempt between tries.
func (c *HTTPClient) backoff() retry.Backoff {
	var attempt int64
	linear := retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * c.retryDelay, false
	})
	return retry.WithMaxRetries(uint64(max(c.attempts, 0)), linear)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusUnauthorized, se.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthorized, se.Status)
		case se.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, se.Status)
		case se.StatusCode == http.StatusTooManyRequests, se.StatusCode >= 500:
			return fmt.Errorf("%w: %s", ErrUnavailable, se.Status)
		case se.StatusCode == http.StatusRequestEntityTooLarge, se.StatusCode == http.StatusUnsupportedMediaType:
			return fmt.Errorf("%w: %s", ErrRejected, strings.TrimSpace(se.Body))
		default:
			return fmt.Errorf("http error: %w", err)
		}
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
