package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/examkeeper/internal/client/validator"
	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/auth"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/dmitrijs2005/examkeeper/internal/server/services"
)

var secret = []byte("test-secret")

type fakeIntake struct {
	got       services.IntakeRequest
	body      []byte
	intakeErr error
	exams     []*models.Exam
	listErr   error
}

func (f *fakeIntake) Intake(ctx context.Context, req services.IntakeRequest) (*models.Exam, error) {
	f.got = req
	f.body, _ = io.ReadAll(req.Body)
	if f.intakeErr != nil {
		return nil, f.intakeErr
	}
	return &models.Exam{
		ID: "exam-1", UserID: req.UserID, Title: services.ExamTitle, FileName: req.FileName,
		Size: int64(len(f.body)), Digest: "d1g3st", CollectedAt: time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeIntake) List(ctx context.Context, userID string) ([]*models.Exam, error) {
	return f.exams, f.listErr
}

func (f *fakeIntake) Get(ctx context.Context, userID, id string) (*models.Exam, error) {
	for _, e := range f.exams {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, common.ErrorNotFound
}

func newTestEcho(f *fakeIntake, maxUpload int64) *echo.Echo {
	log := logging.NewNopLogger()
	e := NewEcho(log)
	RegisterRoutes(e, NewHandler(f, log), secret, maxUpload)
	return e
}

func bearer(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, secret, ttl)
	require.NoError(t, err)
	return common.BearerPrefix + tok
}

func multipartBody(t *testing.T, field, name, contentType string, data []byte, lab string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	if lab != "" {
		require.NoError(t, mw.WriteField("lab", lab))
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr), rec.Body.String())
	return apiErr
}

func TestHealth(t *testing.T) {
	e := newTestEcho(&fakeIntake{}, 1<<20)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUpload_Success(t *testing.T) {
	f := &fakeIntake{}
	e := newTestEcho(f, 1<<20)

	body, ct := multipartBody(t, common.UploadFormField, "hemograma.pdf", common.PDFMimeType, []byte("%PDF-1.7"), "Lab Central")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exams/files", body)
	req.Header.Set(echo.HeaderContentType, ct)
	req.Header.Set(common.AuthorizationHeaderName, bearer(t, "u1", time.Hour))

	rec := do(e, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "d1g3st", rec.Header().Get(common.DigestHeaderName))

	var exam models.Exam
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exam))
	assert.Equal(t, "exam-1", exam.ID)
	assert.Equal(t, "hemograma.pdf", exam.FileName)
	assert.Empty(t, exam.UserID, "user id is not exposed")

	assert.Equal(t, "u1", f.got.UserID)
	assert.Equal(t, "hemograma.pdf", f.got.FileName)
	assert.Equal(t, common.PDFMimeType, f.got.ContentType)
	assert.Equal(t, "Lab Central", f.got.Lab)
	assert.Equal(t, int64(8), f.got.Size)
	assert.Equal(t, []byte("%PDF-1.7"), f.body)
}

func TestUpload_Auth(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "missing", header: "", message: "missing token"},
		{name: "not bearer", header: "Basic abc", message: "missing token"},
		{name: "garbage", header: common.BearerPrefix + "garbage", message: "invalid token"},
		{name: "expired", header: "", message: "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(&fakeIntake{}, 1<<20)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exams", nil)
			header := tt.header
			if tt.name == "expired" {
				header = bearer(t, "u1", -time.Minute)
			}
			if header != "" {
				req.Header.Set(common.AuthorizationHeaderName, header)
			}

			rec := do(e, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			apiErr := decodeAPIError(t, rec)
			assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestUpload_Errors(t *testing.T) {
	tests := []struct {
		name       string
		intakeErr  error
		field      string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid format",
			intakeErr:  validator.Result{Reason: validator.InvalidFormat}.Err(),
			field:      common.UploadFormField,
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   "INVALID_FORMAT",
		},
		{
			name:       "too large",
			intakeErr:  validator.Result{Reason: validator.TooLarge, Limit: validator.LimitsFromMegabytes(15)}.Err(),
			field:      common.UploadFormField,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "TOO_LARGE",
		},
		{
			name:       "storage down",
			intakeErr:  errors.Join(services.ErrStorage, errors.New("bucket")),
			field:      common.UploadFormField,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "unexpected",
			intakeErr:  errors.New("db exploded"),
			field:      common.UploadFormField,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "UNKNOWN_ERROR",
		},
		{
			name:       "wrong field",
			field:      "document",
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(&fakeIntake{intakeErr: tt.intakeErr}, 1<<20)

			body, ct := multipartBody(t, tt.field, "a.pdf", common.PDFMimeType, []byte("%PDF"), "")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/exams/files", body)
			req.Header.Set(echo.HeaderContentType, ct)
			req.Header.Set(common.AuthorizationHeaderName, bearer(t, "u1", time.Hour))

			rec := do(e, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
		})
	}
}

func TestUpload_BodyLimit(t *testing.T) {
	f := &fakeIntake{}
	e := newTestEcho(f, 1024)

	body, ct := multipartBody(t, common.UploadFormField, "big.pdf", common.PDFMimeType, make([]byte, 200*1024), "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exams/files", body)
	req.Header.Set(echo.HeaderContentType, ct)
	req.Header.Set(common.AuthorizationHeaderName, bearer(t, "u1", time.Hour))

	rec := do(e, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "TOO_LARGE", decodeAPIError(t, rec).Code)
	assert.Empty(t, f.got.UserID, "intake never ran")
}

func TestListAndGet(t *testing.T) {
	f := &fakeIntake{exams: []*models.Exam{
		{ID: "exam-2", Title: services.ExamTitle, FileName: "b.pdf", Size: 2},
		{ID: "exam-1", Title: services.ExamTitle, FileName: "a.pdf", Size: 1},
	}}
	e := newTestEcho(f, 1<<20)
	token := bearer(t, "u1", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exams", nil)
	req.Header.Set(common.AuthorizationHeaderName, token)
	rec := do(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Exam
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "exam-2", list[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/exams/exam-1", nil)
	req.Header.Set(common.AuthorizationHeaderName, token)
	rec = do(e, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/exams/nope", nil)
	req.Header.Set(common.AuthorizationHeaderName, token)
	rec = do(e, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeAPIError(t, rec).Code)
}

func TestList_Error(t *testing.T) {
	e := newTestEcho(&fakeIntake{listErr: errors.New("db down")}, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exams", nil)
	req.Header.Set(common.AuthorizationHeaderName, bearer(t, "u1", time.Hour))
	rec := do(e, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEcho(&fakeIntake{}, 1<<20)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTTP_ERROR", decodeAPIError(t, rec).Code)
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "TOO_LARGE: big", NewTooLargeError("big").Error())
	assert.Equal(t, "boom", NewBadRequestError("x", errors.New("boom")).Details)
	assert.Empty(t, NewBadRequestError("x", nil).Details)
}
