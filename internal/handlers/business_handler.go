package handlers

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/middleware"
	"gorent/internal/services"
	"gorent/internal/utils"
)

type BusinessHandler struct {
	businessService services.BusinessService
}

func NewBusinessHandler(businessService services.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
	}
}

func (h *BusinessHandler) Dashboard(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	stats, err := h.businessService.Dashboard(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Dashboard retrieved", stats)
}

func (h *BusinessHandler) UserStats(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	stats, err := h.businessService.UserStats(c.Request.Context(), actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Stats retrieved", stats)
}

// PlatformUserStats is the admin view of the whole user base.
func (h *BusinessHandler) PlatformUserStats(c *gin.Context) {
	stats, err := h.businessService.PlatformUserStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User stats retrieved", stats)
}
