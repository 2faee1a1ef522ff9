package routes

import (
	"rentverse-server/models"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12"
)

func GetPropertyTypes(ctx iris.Context) {
	var types []models.PropertyType
	err := storage.DB.Where("is_active = ?", true).Order("name ASC").Find(&types).Error
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": types, "count": len(types)})
}

func CreatePropertyType(ctx iris.Context) {
	var input ReferenceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	propertyType := models.PropertyType{Code: input.Code, Name: input.Name}
	if err := storage.DB.Create(&propertyType).Error; err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(propertyType)
}

func DeletePropertyType(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.Fail(ctx, iris.StatusBadRequest, utils.CodeValidation, "Invalid property type id", "")
		return
	}

	res := storage.DB.Delete(&models.PropertyType{}, id)
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
