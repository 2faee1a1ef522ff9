package routes

import (
	"rentverse-server/models"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12"
)

type ReferenceInput struct {
	Code string `json:"code" validate:"required,max=64"`
	Name string `json:"name" validate:"required,max=256"`
	Icon string `json:"icon"`
}

func GetAmenities(ctx iris.Context) {
	var amenities []models.Amenity
	err := storage.DB.Where("is_active = ?", true).Order("name ASC").Find(&amenities).Error
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": amenities, "count": len(amenities)})
}

func CreateAmenity(ctx iris.Context) {
	var input ReferenceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenity := models.Amenity{Code: input.Code, Name: input.Name, Icon: input.Icon}
	if err := storage.DB.Create(&amenity).Error; err != nil {
		// duplicate codes come back as conflict
		utils.FailFromError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(amenity)
}

func DeleteAmenity(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.Fail(ctx, iris.StatusBadRequest, utils.CodeValidation, "Invalid amenity id", "")
		return
	}

	res := storage.DB.Delete(&models.Amenity{}, id)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}
