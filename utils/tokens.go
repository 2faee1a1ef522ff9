package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"rentverse-server/models"
	"rentverse-server/storage"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func CreateTokenPair(id uint, role string) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	refreshClaims := jwt.Claims{Subject: strconv.FormatUint(uint64(id), 10)}

	accessToken, err := accessTokenSigner.Sign(AccessToken{ID: id, Role: role})
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	storage.Redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)

	return &tokenPair, nil
}

func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)

	validToken, tokenErr := storage.Redis.Get(bgContext, tokenStr).Result()
	if tokenErr != nil || validToken != "true" {
		Fail(ctx, iris.StatusForbidden, CodeAccessDenied, "Invalid refresh token", "")
		return
	}
	storage.Redis.Del(bgContext, tokenStr)

	userID, parseErr := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if parseErr != nil {
		Fail(ctx, iris.StatusInternalServerError, CodeInternal, "Something went wrong", parseErr.Error())
		return
	}

	var user models.User
	res := storage.DB.Select("id, role").Find(&user, uint(userID))
	if res.Error != nil || res.RowsAffected == 0 {
		CreateNotFound(ctx)
		return
	}

	tokenPair, pairErr := CreateTokenPair(user.ID, user.Role)
	if pairErr != nil {
		Fail(ctx, iris.StatusInternalServerError, CodeInternal, "Something went wrong", pairErr.Error())
		return
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}
