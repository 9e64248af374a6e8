package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
)

// respondServiceError maps domain errors onto the HTTP surface. The contract:
// validation problems are 400, authorization 403, missing resources 404,
// availability races 409, state machine violations 422.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrBookingConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		utils.UnprocessableResponse(c, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotCarOwner),
		errors.Is(err, services.ErrBusinessOnly),
		errors.Is(err, services.ErrNotBookingRenter):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())
	case errors.Is(err, services.ErrCancelNotAllowed),
		errors.Is(err, services.ErrBookingNotCompleted),
		errors.Is(err, services.ErrBookingNotPayable),
		errors.Is(err, services.ErrPaymentNotStarted),
		errors.Is(err, services.ErrPaymentIncomplete):
		utils.UnprocessableResponse(c, "INVALID_STATE", err.Error())
	case errors.Is(err, services.ErrAlreadyReviewed),
		errors.Is(err, services.ErrCarHasBookings):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrRefundExceedsTotal),
		errors.Is(err, services.ErrCarUnavailableListed):
		utils.BadRequestResponse(c, err.Error())
	case isNotFound(err):
		utils.ErrorResponse(c, 404, "NOT_FOUND", err.Error())
	case isConflict(err):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}

// Repository errors arrive as plain strings; classify by message.
func isNotFound(err error) bool {
	return strings.Contains(err.Error(), "not found")
}

func isConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "already has")
}
