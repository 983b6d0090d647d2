package handlers

import (
	"iledu-loan/internal/core/services"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles profile self-service and role management
type ProfileHandler struct {
	profiles services.ProfileUseCase
	log      logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles services.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

// SetRoleRequest represents a role change
type SetRoleRequest struct {
	Role string `json:"role"`
}

// UpdateProfile updates the caller's names
// @Summary Update own profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Names"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/profile [put]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.UnprocessableEntity(c, "Validation failed", invalidFields(err))
	}

	profile, err := h.profiles.UpdateProfile(c.Context(), profileIDFrom(c), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Profile updated successfully", fiber.Map{"profile": profile})
}

// ChangePassword changes the caller's password and signs out other devices
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/password [put]
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.UnprocessableEntity(c, "Validation failed", invalidFields(err))
	}

	if err := h.profiles.ChangePassword(c.Context(), profileIDFrom(c), req); err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Password changed successfully", nil)
}

// SetRole grants or removes reviewer and admin access
// @Summary Set profile role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param body body SetRoleRequest true "APPLICANT, REVIEWER or ADMIN"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admin/profiles/{id}/role [put]
func (h *ProfileHandler) SetRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.profiles.SetRole(c.Context(), profileIDFrom(c), c.Params("id"), req.Role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Role updated successfully", fiber.Map{"profile": profile})
}
