package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/examkeeper/internal/client/validator"
	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/dmitrijs2005/examkeeper/internal/server/services"
)

// ExamIntake is the service behind the exam endpoints.
type ExamIntake interface {
	Intake(ctx context.Context, req services.IntakeRequest) (*models.Exam, error)
	List(ctx context.Context, userID string) ([]*models.Exam, error)
	Get(ctx context.Context, userID, id string) (*models.Exam, error)
}

var _ ExamIntake = (*services.ExamService)(nil)

type Handler struct {
	exams ExamIntake
	log   logging.Logger
}

func NewHandler(exams ExamIntake, log logging.Logger) *Handler {
	return &Handler{exams: exams, log: log.With("module", "api")}
}

// HandleUpload accepts a multipart form with the PDF in the "file" field and
// an optional "lab" value. The stored digest is echoed in X-Content-Digest.
func (h *Handler) HandleUpload(c echo.Context) error {
	fh, err := c.FormFile(common.UploadFormField)
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return NewTooLargeError("request body too large")
		}
		return NewBadRequestError("multipart field \""+common.UploadFormField+"\" is required", err)
	}

	f, err := fh.Open()
	if err != nil {
		return NewBadRequestError("cannot read upload", err)
	}
	defer f.Close()

	exam, err := h.exams.Intake(c.Request().Context(), services.IntakeRequest{
		UserID:      userID(c),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Lab:         c.FormValue("lab"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return intakeError(err)
	}

	c.Response().Header().Set(common.DigestHeaderName, exam.Digest)
	return c.JSON(http.StatusCreated, exam)
}

func intakeError(err error) error {
	switch {
	case errors.Is(err, validator.ErrInvalidFormat):
		return NewInvalidFormatError(err.Error())
	case errors.Is(err, validator.ErrTooLarge):
		return NewTooLargeError(err.Error())
	case errors.Is(err, services.ErrStorage):
		return NewServiceUnavailableError("storage is unavailable")
	}
	return err
}

func (h *Handler) HandleList(c echo.Context) error {
	exams, err := h.exams.List(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exams)
}

func (h *Handler) HandleGet(c echo.Context) error {
	id := c.Param("id")
	exam, err := h.exams.Get(c.Request().Context(), userID(c), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return NewNotFoundError("exam", id)
		}
		return err
	}
	return c.JSON(http.StatusOK, exam)
}

func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
