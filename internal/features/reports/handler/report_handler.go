package handler

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"patrol-verifier/internal/core/logger"
	"patrol-verifier/internal/features/reports/domain"
	"patrol-verifier/internal/features/reports/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request headers identifying the caller. Authentication happens upstream.
const (
	HeaderClientID = "X-Client-ID"
	HeaderUserID   = "X-User-ID"

	reportFileField = "report_file"
)

// ReportHandler handles HTTP requests for patrol reports.
type ReportHandler struct {
	submitter      ports.ReportSubmitter
	maxUploadBytes int64
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(submitter ports.ReportSubmitter, maxUploadBytes int64) *ReportHandler {
	return &ReportHandler{
		submitter:      submitter,
		maxUploadBytes: maxUploadBytes,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// SubmitReportResponse is the outcome of an upload.
type SubmitReportResponse struct {
	domain.SubmissionResult
	RayID string `json:"ray_id,omitempty"`
}

// RegisterRoutes mounts the report endpoints on router.
func (h *ReportHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/shifts/:id/reports", h.SubmitReport)
	router.Get("/reports/:id", h.GetReport)
}

// SubmitReport godoc
// @Summary Upload a patrol report
// @Description Uploads a GPS track CSV for a shift and verifies it against the shift's route checkpoints
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Shift ID"
// @Param X-Client-ID header int true "Client ID"
// @Param X-User-ID header int true "Submitting user ID"
// @Param report_file formData file true "Track CSV"
// @Success 201 {object} SubmitReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} SubmitReportResponse
// @Failure 413 {object} ErrorResponse
// @Failure 422 {object} SubmitReportResponse
// @Failure 500 {object} SubmitReportResponse
// @Router /shifts/{id}/reports [post]
func (h *ReportHandler) SubmitReport(c *fiber.Ctx) error {
	shiftID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || shiftID <= 0 {
		return h.errorJSON(c, fiber.StatusBadRequest, "shift id must be a positive integer")
	}

	clientID, err := positiveHeader(c, HeaderClientID)
	if err != nil {
		return h.errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	userID, err := positiveHeader(c, HeaderUserID)
	if err != nil {
		return h.errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	fh, err := c.FormFile(reportFileField)
	if err != nil {
		return h.errorJSON(c, fiber.StatusBadRequest, "No file part in the request")
	}
	if fh.Filename == "" {
		return h.errorJSON(c, fiber.StatusBadRequest, "No selected file")
	}
	if fh.Size > h.maxUploadBytes {
		return h.errorJSON(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the maximum upload size of %d bytes", h.maxUploadBytes))
	}

	f, err := fh.Open()
	if err != nil {
		logger.Get().Error("Failed to open uploaded file", zap.Error(err))
		return h.errorJSON(c, fiber.StatusBadRequest, "uploaded file could not be read")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		logger.Get().Error("Failed to read uploaded file", zap.Error(err))
		return h.errorJSON(c, fiber.StatusBadRequest, "uploaded file could not be read")
	}
	if int64(len(data)) > h.maxUploadBytes {
		return h.errorJSON(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the maximum upload size of %d bytes", h.maxUploadBytes))
	}

	result := h.submitter.SubmitReport(c.UserContext(), domain.SubmitRequest{
		ShiftID:     shiftID,
		ClientID:    clientID,
		SubmittedBy: userID,
		Filename:    fh.Filename,
		Data:        data,
	})

	return c.Status(submissionStatus(result)).JSON(SubmitReportResponse{
		SubmissionResult: result,
		RayID:            rayID(c),
	})
}

// GetReport godoc
// @Summary Get a patrol report
// @Description Returns a report with its per-checkpoint verification outcomes
// @Tags reports
// @Produce json
// @Param id path string true "Report ID (UUID)"
// @Success 200 {object} domain.ReportDetails
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return h.errorJSON(c, fiber.StatusBadRequest, "report id must be a UUID")
	}

	details, err := h.submitter.ReportDetails(c.UserContext(), id.String())
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			return h.errorJSON(c, fiber.StatusNotFound, "report not found")
		}
		logger.Get().Error("Failed to get report", zap.String("report_id", id.String()), zap.Error(err))
		return h.errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(details)
}

func submissionStatus(result domain.SubmissionResult) int {
	switch {
	case result.Success:
		return fiber.StatusCreated
	case errors.Is(result.Cause, domain.ErrShiftNotFound):
		return fiber.StatusNotFound
	case result.ReportID == "":
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusUnprocessableEntity
	}
}

func positiveHeader(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s header must be a positive integer", name)
	}
	return v, nil
}

func (h *ReportHandler) errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		RayID:   rayID(c),
	})
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
