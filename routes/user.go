package routes

import (
	"rentverse-server/models"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

type RegisterUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=256"`
	LastName  string `json:"lastName" validate:"required,max=256"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=256"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Register(ctx iris.Context) {
	var input RegisterUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if hashErr != nil {
		utils.Fail(ctx, iris.StatusInternalServerError, utils.CodeInternal, "Something went wrong", hashErr.Error())
		return
	}

	user := models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  string(hash),
		Role:      "user",
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	respondWithTokens(ctx, &user)
}

func Login(ctx iris.Context) {
	var input LoginUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	res := storage.DB.Where("email = ?", input.Email).Limit(1).Find(&user)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Fail(ctx, iris.StatusUnauthorized, utils.CodeAccessDenied, "Invalid credentials", "")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.Fail(ctx, iris.StatusUnauthorized, utils.CodeAccessDenied, "Invalid credentials", "")
		return
	}

	respondWithTokens(ctx, &user)
}

func Me(ctx iris.Context) {
	requester := utils.RequesterFrom(ctx)

	var user models.User
	res := storage.DB.Find(&user, requester.ID)
	if res.Error != nil {
		utils.FailFromError(ctx, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(user)
}

func respondWithTokens(ctx iris.Context, user *models.User) {
	tokenPair, err := utils.CreateTokenPair(user.ID, user.Role)
	if err != nil {
		utils.Fail(ctx, iris.StatusInternalServerError, utils.CodeInternal, "Something went wrong", err.Error())
		return
	}

	ctx.JSON(iris.Map{
		"ID":           user.ID,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"email":        user.Email,
		"role":         user.Role,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
