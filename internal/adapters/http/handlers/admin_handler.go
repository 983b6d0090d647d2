package handlers

import (
	"bytes"
	"time"

	"iledu-loan/internal/adapters/persistence/repositories"
	"iledu-loan/internal/core/services"
	"iledu-loan/internal/pkg/export"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/pagination"
	"iledu-loan/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the reviewer console
type AdminHandler struct {
	reviews services.ReviewUseCase
	log     logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reviews services.ReviewUseCase, log logger.Logger) *AdminHandler {
	return &AdminHandler{reviews: reviews, log: log}
}

// UpdateStatusRequest represents a review decision
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListApplications lists all applications
// @Summary List all applications
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param q query string false "Purpose contains"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/applications [get]
func (h *AdminHandler) ListApplications(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	apps, meta, err := h.reviews.List(c.Context(), filterFrom(c), params)
	if err != nil {
		return writeError(c, h.log, err)
	}

	return response.Success(c, "Applications retrieved successfully", fiber.Map{
		"applications": apps,
		"meta":         meta,
	})
}

// GetApplication returns one application with family record and documents
// @Summary Get application
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id} [get]
func (h *AdminHandler) GetApplication(c *fiber.Ctx) error {
	detail, err := h.reviews.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Application retrieved successfully", detail)
}

// UpdateStatus accepts or rejects a pending application
// @Summary Decide application
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body UpdateStatusRequest true "accepted or rejected"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admin/applications/{id}/status [put]
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.reviews.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Application status updated", app)
}

// ExportApplications downloads the filtered list as a workbook
// @Summary Export applications
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param q query string false "Purpose contains"
// @Success 200 {file} file
// @Router /admin/applications/export [get]
func (h *AdminHandler) ExportApplications(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.reviews.Export(c.Context(), filterFrom(c), &buf); err != nil {
		return writeError(c, h.log, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Attachment("applications-" + time.Now().Format("20060102") + ".xlsx")
	return c.Send(buf.Bytes())
}

func filterFrom(c *fiber.Ctx) repositories.ApplicationFilter {
	return repositories.ApplicationFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	}
}
