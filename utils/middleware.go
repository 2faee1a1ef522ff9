package utils

import (
	"rentverse-server/services"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// RequireUser copies the verified token claims into the request values so
// handlers can build a Requester without re-asserting the claim type.
func RequireUser(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userRole", claims.Role)
	ctx.Next()
}

// AdminOnly ensures the requester has admin or super_admin role.
func AdminOnly(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != "admin" && claims.Role != "super_admin" {
		Fail(ctx, iris.StatusForbidden, CodeAccessDenied, "Access denied", "admin access required")
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userRole", claims.Role)
	ctx.Next()
}

// OptionalUser attaches the caller identity when a valid bearer token is
// present and stays silent otherwise, for endpoints that are public but
// visibility-aware.
func OptionalUser(verifier *jwt.Verifier) iris.Handler {
	return func(ctx iris.Context) {
		token := verifier.RequestToken(ctx)
		if token != "" {
			if verified, err := verifier.VerifyToken([]byte(token)); err == nil {
				var claims AccessToken
				if claimsErr := verified.Claims(&claims); claimsErr == nil {
					ctx.Values().Set("userID", claims.ID)
					ctx.Values().Set("userRole", claims.Role)
				}
			}
		}
		ctx.Next()
	}
}

// RequesterFrom rebuilds the caller identity stored by the auth middleware.
// Both fields stay zero for anonymous requests.
func RequesterFrom(ctx iris.Context) services.Requester {
	requester := services.Requester{}
	if v := ctx.Values().Get("userID"); v != nil {
		if id, ok := v.(uint); ok {
			requester.ID = id
		}
	}
	if v := ctx.Values().Get("userRole"); v != nil {
		if role, ok := v.(string); ok {
			requester.Role = role
		}
	}
	return requester
}
