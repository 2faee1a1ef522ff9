package routes

import (
	"time"

	"rentverse-server/models"
	"rentverse-server/services"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12"
)

type CreateBookingInput struct {
	PropertyID  uint      `json:"propertyID" validate:"required"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	MonthlyRent float64   `json:"monthlyRent" validate:"gte=0"`
	Note        string    `json:"note"`
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !input.EndDate.After(input.StartDate) {
		utils.FailFromError(ctx, &services.ValidationError{Field: "endDate", Message: "endDate must be after startDate"})
		return
	}

	var property models.Property
	res := storage.DB.Find(&property, input.PropertyID)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	if property.Status != models.StatusApproved {
		utils.FailFromError(ctx, &services.InvalidStateError{Message: "Only APPROVED properties can be booked"})
		return
	}

	requester := utils.RequesterFrom(ctx)
	booking := models.Booking{
		PropertyID:  property.ID,
		TenantID:    requester.ID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		MonthlyRent: input.MonthlyRent,
		Status:      "pending",
		Note:        input.Note,
	}
	if err := storage.DB.Create(&booking).Error; err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

func GetMyBookings(ctx iris.Context) {
	requester := utils.RequesterFrom(ctx)

	var bookings []models.Booking
	err := storage.DB.Preload("Property").
		Where("tenant_id = ?", requester.ID).Order("id DESC").Find(&bookings).Error
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}
	ctx.JSON(bookings)
}

// GetPropertyBookings lists a property's bookings for its owner or an admin.
func GetPropertyBookings(ctx iris.Context) {
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

	var bookings []models.Booking
	dbErr := storage.DB.Preload("Tenant").
		Where("property_id = ?", id).Order("id DESC").Find(&bookings).Error
	if dbErr != nil {
		utils.FailFromError(ctx, dbErr)
		return
	}
	ctx.JSON(bookings)
}

func UpdateBookingStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.Fail(ctx, iris.StatusBadRequest, utils.CodeValidation, "Invalid booking id", "")
		return
	}

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	res := storage.DB.Preload("Property").Find(&booking, id)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 || booking.Property == nil {
		utils.CreateNotFound(ctx)
		return
	}

	requester := utils.RequesterFrom(ctx)
	if err := services.CanMutateProperty(booking.Property, requester); err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	booking.Status = input.Status
	if err := storage.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("status", input.Status).Error; err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	ctx.JSON(booking)
}
