package handlers

import (
	"errors"

	"iledu-loan/internal/core/domain"
	"iledu-loan/internal/core/services"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// writeLoanError answers a failed loan operation. Authorization and server
// failures are plain text bodies; the rest use the JSON envelope.
func writeLoanError(c *fiber.Ctx, log logger.Logger, err error) error {
	kind := domain.KindOf(err)
	fields := map[string]interface{}{
		"op":    domain.OpOf(err),
		"kind":  string(kind),
		"error": err.Error(),
	}

	switch kind {
	case domain.KindAuthorization:
		log.Warn("profile not resolved", fields)
		return response.Text(c, fiber.StatusBadRequest, "User profile not found")
	case domain.KindValidation:
		var fe domain.FieldErrors
		errors.As(err, &fe)
		return response.UnprocessableEntity(c, "Validation failed", fe.Map())
	case domain.KindConflict:
		return response.Conflict(c, conflictMessage(err))
	case domain.KindNotFound:
		return response.NotFound(c, "Loan application not found")
	default:
		log.Error("request failed", fields)
		return response.Text(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}

// writeError answers console and self-service failures with the JSON
// envelope for every kind.
func writeError(c *fiber.Ctx, log logger.Logger, err error) error {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		var fe domain.FieldErrors
		errors.As(err, &fe)
		return response.UnprocessableEntity(c, "Validation failed", fe.Map())
	case domain.KindConflict:
		return response.Conflict(c, conflictMessage(err))
	case domain.KindNotFound:
		if errors.Is(err, domain.ErrProfileNotFound) {
			return response.NotFound(c, "Profile not found")
		}
		return response.NotFound(c, "Loan application not found")
	default:
		log.Error("request failed", map[string]interface{}{
			"op":    domain.OpOf(err),
			"error": err.Error(),
		})
		return response.InternalServerError(c, "Internal Server Error")
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrActiveApplicationExists):
		return "An active loan application already exists"
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return "Only pending applications can be accepted or rejected"
	case errors.Is(err, services.ErrCannotChangeOwnRole):
		return "You cannot change your own role"
	}
	return "Conflict"
}

// userIDFrom returns the external identity set by the auth middleware.
func userIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// profileIDFrom returns the profile row id set by the auth middleware.
func profileIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals("profileID").(string)
	return id
}
