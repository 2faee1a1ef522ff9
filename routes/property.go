package routes

import (
	"encoding/json"
	"strings"

	"rentverse-server/models"
	"rentverse-server/services"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

const maxPageSize = 100

// PropertyHandler serves listing CRUD. All status writes go through the
// approval service so the property row and its approval history stay in one
// transactional write path.
type PropertyHandler struct {
	approvals *services.ApprovalService
}

func NewPropertyHandler(approvals *services.ApprovalService) *PropertyHandler {
	return &PropertyHandler{approvals: approvals}
}

type PropertyInput struct {
	Title          string  `json:"title" validate:"required,max=256"`
	Description    string  `json:"description"`
	PropertyTypeID uint    `json:"propertyTypeID"`
	Address        string  `json:"address" validate:"required,max=512"`
	City           string  `json:"city" validate:"required,max=256"`
	State          string  `json:"state" validate:"max=256"`
	Country        string  `json:"country" validate:"required,max=128"`
	Lat            float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng            float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Price          float64 `json:"price" validate:"required,gte=0"`
	Bedrooms       int     `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms      float64 `json:"bathrooms" validate:"gte=0,lte=20"`
	AreaSqft       float64 `json:"areaSqft" validate:"gte=0"`
	Furnished      *bool   `json:"furnished"`
	IsAvailable    *bool   `json:"isAvailable"`
	AmenityIDs     []uint  `json:"amenityIDs"`
}

func (h *PropertyHandler) Create(ctx iris.Context) {
	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	requester := utils.RequesterFrom(ctx)

	amenityIDs := input.AmenityIDs
	if amenityIDs == nil {
		amenityIDs = []uint{}
	}
	amenitiesJSON, _ := json.Marshal(amenityIDs)

	property := models.Property{
		Code:        generatePropertyCode(),
		OwnerID:     requester.ID,
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Country:     input.Country,
		Lat:         input.Lat,
		Lng:         input.Lng,
		Price:       input.Price,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		AreaSqft:    input.AreaSqft,
		Furnished:   input.Furnished,
		IsAvailable: input.IsAvailable,
		AmenityIDs:  datatypes.JSON(amenitiesJSON),
	}
	if input.PropertyTypeID > 0 {
		typeID := input.PropertyTypeID
		property.PropertyTypeID = &typeID
	}

	if err := h.approvals.CreateProperty(&property); err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

func (h *PropertyHandler) List(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("limit", 20)
	if perPage <= 0 || perPage > maxPageSize {
		perPage = 20
	}

	requester := utils.RequesterFrom(ctx)
	q := storage.DB.Model(&models.Property{})

	if status := strings.TrimSpace(ctx.URLParam("status")); status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}
	if city := strings.TrimSpace(ctx.URLParam("city")); city != "" {
		q = q.Where("lower(city) = lower(?)", city)
	}
	if minPrice, err := ctx.URLParamFloat64("minPrice"); err == nil && minPrice > 0 {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamFloat64("maxPrice"); err == nil && maxPrice > 0 {
		q = q.Where("price <= ?", maxPrice)
	}
	if bedrooms, err := ctx.URLParamInt("bedrooms"); err == nil && bedrooms > 0 {
		q = q.Where("bedrooms = ?", bedrooms)
	}
	if furnished := ctx.URLParam("furnished"); furnished != "" {
		q = q.Where("furnished = ?", furnished == "true")
	}
	if available := ctx.URLParam("available"); available != "" {
		q = q.Where("is_available = ?", available == "true")
	}

	// The visibility rule is intersected with whatever status filter the
	// caller passed; it can narrow the result, never widen it.
	if !requester.IsAdmin() {
		if requester.ID != 0 {
			q = q.Where("status = ? OR owner_id = ?", models.StatusApproved, requester.ID)
		} else {
			q = q.Where("status = ?", models.StatusApproved)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	var properties []models.Property
	err := q.Preload("Owner").Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&properties).Error
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

func (h *PropertyHandler) Get(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.Fail(ctx, iris.StatusBadRequest, utils.CodeValidation, "Invalid property id", "")
		return
	}

	var property models.Property
	res := storage.DB.Preload("Owner").Preload("PropertyType").Find(&property, id)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	// Unapproved listings are invisible to outsiders; 404 hides that the
	// listing exists at all.
	if !services.CanViewProperty(&property, utils.RequesterFrom(ctx)) {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(property)
}

func (h *PropertyHandler) GetByCode(ctx iris.Context) {
	code := ctx.Params().Get("code")

	var property models.Property
	res := storage.DB.Preload("Owner").Preload("PropertyType").
		Where("code = ?", code).Limit(1).Find(&property)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if !services.CanViewProperty(&property, utils.RequesterFrom(ctx)) {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(property)
}

func (h *PropertyHandler) Update(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.Fail(ctx, iris.StatusBadRequest, utils.CodeValidation, "Invalid property id", "")
		return
	}

	var property models.Property
	res := storage.DB.Find(&property, id)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	requester := utils.RequesterFrom(ctx)
	if err := services.CanMutateProperty(&property, requester); err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenityIDs := input.AmenityIDs
	if amenityIDs == nil {
		amenityIDs = []uint{}
	}
	amenitiesJSON, _ := json.Marshal(amenityIDs)

	wasRejected := property.Status == models.StatusRejected

	property.Title = input.Title
	property.Description = input.Description
	property.Address = input.Address
	property.City = input.City
	property.State = input.State
	property.Country = input.Country
	property.Lat = input.Lat
	property.Lng = input.Lng
	property.Price = input.Price
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	property.AreaSqft = input.AreaSqft
	property.Furnished = input.Furnished
	property.IsAvailable = input.IsAvailable
	property.AmenityIDs = datatypes.JSON(amenitiesJSON)
	if input.PropertyTypeID > 0 {
		typeID := input.PropertyTypeID
		property.PropertyTypeID = &typeID
	}

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	// An owner edit to a rejected listing is a resubmission; approved
	// listings keep their status so benign edits don't force a re-review.
	if wasRejected {
		if err := h.approvals.Resubmit(&property); err != nil {
			utils.FailFromError(ctx, err)
			return
		}
	}

	ctx.JSON(property)
}

func (h *PropertyHandler) Delete(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.Fail(ctx, iris.StatusBadRequest, utils.CodeValidation, "Invalid property id", "")
		return
	}

	var property models.Property
	res := storage.DB.Find(&property, id)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	requester := utils.RequesterFrom(ctx)
	if err := services.CanMutateProperty(&property, requester); err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	var dependents int64
	if err := storage.DB.Model(&models.Booking{}).
		Where("property_id = ?", property.ID).Count(&dependents).Error; err != nil {
		utils.FailFromError(ctx, err)
		return
	}
	if dependents > 0 {
		utils.Fail(ctx, iris.StatusConflict, utils.CodeConflict, "Property has bookings and cannot be deleted", "")
		return
	}

	if err := storage.DB.Delete(&models.Property{}, property.ID).Error; err != nil {
		utils.FailFromError(ctx, err)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

func generatePropertyCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "RV-" + raw[:10]
}
