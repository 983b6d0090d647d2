package handlers

import (
	"io"
	"mime/multipart"

	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/core/services"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/pagination"
	"iledu-loan/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler serves the applicant-facing loan endpoints
type LoanHandler struct {
	loans       services.LoanUseCase
	submissions services.SubmissionUseCase
	log         logger.Logger
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loans services.LoanUseCase, submissions services.SubmissionUseCase, log logger.Logger) *LoanHandler {
	return &LoanHandler{loans: loans, submissions: submissions, log: log}
}

// CanApply reports whether the caller may start a new application
// @Summary Check eligibility
// @Description True when the caller has no applications or all of them were rejected
// @Tags Loan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Failure 400 {string} string "User profile not found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /loan/canApply [get]
func (h *LoanHandler) CanApply(c *fiber.Ctx) error {
	ok, err := h.loans.CanApply(c.Context(), userIDFrom(c))
	if err != nil {
		return writeLoanError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"canApply": ok})
}

// GetApplications lists the caller's applications
// @Summary List my applications
// @Description Applications with display status and relative age. Paged only when page or limit is given.
// @Tags Loan
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, accepted or rejected"
// @Param q query string false "Purpose contains"
// @Param sort query string false "amountRequested, createdAt or status"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {string} string "User profile not found"
// @Failure 500 {string} string "Internal Server Error"
// @Router /loan/getApplications [get]
func (h *LoanHandler) GetApplications(c *fiber.Ctx) error {
	q := services.ListQuery{
		Status: c.Query("status"),
		Query:  c.Query("q"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
	}
	if pagination.Requested(c) {
		q.Page = pagination.GetParams(c)
	}

	apps, meta, err := h.loans.ListApplications(c.Context(), userIDFrom(c), q)
	if err != nil {
		return writeLoanError(c, h.log, err)
	}

	body := fiber.Map{"applications": apps}
	if meta != nil {
		body["meta"] = meta
	}
	return c.JSON(body)
}

// UploadDetails accepts a complete application
// @Summary Submit application
// @Description Multipart form with userDetails and familyDetails as JSON strings and files under documents.<slot>
// @Tags Loan
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param userDetails formData string true "Loan details JSON"
// @Param familyDetails formData string true "Family details JSON"
// @Param documents.aadharCard formData file true "Aadhar card"
// @Param documents.marksheet10th formData file true "10th marksheet"
// @Param documents.marksheet12th formData file true "12th marksheet"
// @Param documents.rationCard formData file false "Ration card"
// @Param documents.proofOfIncome formData file false "Proof of income"
// @Success 200 {object} services.SubmissionResult
// @Failure 400 {string} string "User profile not found"
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 500 {string} string "Internal Server Error"
// @Router /loan/uploadDetails [post]
func (h *LoanHandler) UploadDetails(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Text(c, fiber.StatusBadRequest, "Invalid multipart form")
	}

	in := services.SubmissionInput{
		UserID:        userIDFrom(c),
		UserDetails:   firstValue(form.Value["userDetails"]),
		FamilyDetails: firstValue(form.Value["familyDetails"]),
		Files:         make(map[string]*services.FileUpload),
	}
	for _, slot := range domain.DocumentSlots {
		headers := form.File["documents."+slot.Name]
		if len(headers) == 0 {
			continue
		}
		in.Files[slot.Name] = fileUpload(headers[0])
	}

	res, err := h.submissions.Submit(c.Context(), in)
	if err != nil {
		return writeLoanError(c, h.log, err)
	}
	return c.JSON(res)
}

// ValidateStage runs one stage transition on the server
// @Summary Validate a stage
// @Description Applies next, back or submit to the draft and returns the resulting stage with field errors
// @Tags Loan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.StageRequest true "Stage, action and draft"
// @Success 200 {object} services.StageResult
// @Failure 400 {object} response.Response
// @Router /loan/validateStage [post]
func (h *LoanHandler) ValidateStage(c *fiber.Ctx) error {
	var req services.StageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	return c.JSON(h.loans.ValidateStage(req))
}

// Occupations lists the accepted occupation values
// @Summary Occupation vocabulary
// @Tags Loan
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /loan/occupations [get]
func (h *LoanHandler) Occupations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"occupations": domain.Occupations})
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func fileUpload(fh *multipart.FileHeader) *services.FileUpload {
	return &services.FileUpload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
