package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/middleware"
	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/internal/validators"
	"gorent/pkg/storage"
)

type CarHandler struct {
	carService services.CarService
}

func NewCarHandler(carService services.CarService) *CarHandler {
	return &CarHandler{
		carService: carService,
	}
}

func (h *CarHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req validators.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateCreateCarRequest(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	car, err := h.carService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Car listed", car)
}

func (h *CarHandler) Get(c *gin.Context) {
	carID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid car ID")
		return
	}

	car, err := h.carService.GetByID(c.Request.Context(), carID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Car retrieved", car)
}

func (h *CarHandler) Search(c *gin.Context) {
	var req validators.SearchCarsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return
	}

	if errs := validators.ValidateSearchCarsRequest(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	params := utils.GetPaginationParams(c)
	cars, total, err := h.carService.Search(c.Request.Context(), &req, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Cars retrieved", cars, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *CarHandler) MyCars(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	cars, total, err := h.carService.GetByOwner(c.Request.Context(), actor.UserID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Cars retrieved", cars, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

func (h *CarHandler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	carID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid car ID")
		return
	}

	var req validators.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateUpdateCarRequest(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return
	}

	car, err := h.carService.Update(c.Request.Context(), actor, carID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Car updated", car)
}

func (h *CarHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	carID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid car ID")
		return
	}

	if err := h.carService.Delete(c.Request.Context(), actor, carID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Car removed", nil)
}

// Availability answers ?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD for one
// car, with a quote for the range.
func (h *CarHandler) Availability(c *gin.Context) {
	carID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid car ID")
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		utils.BadRequestResponse(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		utils.BadRequestResponse(c, "end_date must be YYYY-MM-DD")
		return
	}

	dateRange := models.DateRange{Start: start, End: end}
	if !dateRange.IsValid() {
		utils.BadRequestResponse(c, "end_date must be after start_date")
		return
	}

	available, err := h.carService.CheckAvailability(c.Request.Context(), carID, dateRange)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := gin.H{
		"available":  available,
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
	}

	if available {
		quote, err := h.carService.Quote(c.Request.Context(), carID, dateRange)
		if err == nil {
			result["quote_cents"] = quote
			result["days"] = dateRange.Days()
		}
	}

	utils.SuccessResponse(c, "Availability checked", result)
}

func (h *CarHandler) UploadImage(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	carID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid car ID")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "image file required")
		return
	}
	defer file.Close()

	if header.Size > utils.MaxImageSize {
		utils.BadRequestResponse(c, "Image exceeds the 5MB limit")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if !isAllowedImageType(ext) {
		utils.BadRequestResponse(c, "Unsupported image type")
		return
	}

	upload := &storage.UploadRequest{
		Key:         fmt.Sprintf("cars/%s/%s.%s", carID.Hex(), uuid.NewString(), ext),
		Reader:      file,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}

	isPrimary := c.PostForm("is_primary") == "true"

	image, err := h.carService.UploadImage(c.Request.Context(), actor, carID, upload, isPrimary)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Image uploaded", image)
}

func (h *CarHandler) RemoveImage(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	carID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid car ID")
		return
	}

	imageURL := c.Query("url")
	if imageURL == "" {
		utils.BadRequestResponse(c, "url query parameter required")
		return
	}

	if err := h.carService.RemoveImage(c.Request.Context(), actor, carID, imageURL); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Image removed", nil)
}

func isAllowedImageType(ext string) bool {
	for _, allowed := range utils.AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
