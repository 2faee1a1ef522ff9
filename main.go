package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"rentverse-server/routes"
	"rentverse-server/services"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("APP_ENV") != "production" {
		godotenv.Load()
	}

	db := storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	optionalUser := utils.OptionalUser(accessTokenVerifier)

	// Core services; the review policy and prediction toggle are owned here
	// and injected, not package globals.
	autoApprove := services.NewAutoApprovePolicy()
	approvals := services.NewApprovalService(db, autoApprove)
	prediction := services.NewPredictionClient(os.Getenv("PREDICTION_SERVICE_URL"), 10*time.Second)

	propertyHandler := routes.NewPropertyHandler(approvals)
	approvalHandler := routes.NewApprovalHandler(approvals, autoApprove)
	predictionHandler := routes.NewPredictionHandler(prediction)

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/me", accessTokenVerifierMiddleware, utils.RequireUser, routes.Me)
	}
	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	properties := app.Party("/api/properties")
	{
		properties.Get("/", optionalUser, propertyHandler.List)
		properties.Get("/geojson", optionalUser, routes.GeoJSONSearch)
		properties.Get("/code/{code}", optionalUser, propertyHandler.GetByCode)
		properties.Get("/pending-approvals", accessTokenVerifierMiddleware, utils.AdminOnly, approvalHandler.PendingApprovals)
		properties.Get("/auto-approve/status", approvalHandler.AutoApproveStatus)
		properties.Post("/auto-approve/toggle", accessTokenVerifierMiddleware, utils.AdminOnly, approvalHandler.ToggleAutoApprove)
		properties.Post("/fix-approval-inconsistency", accessTokenVerifierMiddleware, utils.AdminOnly, approvalHandler.FixInconsistencies)
		properties.Post("/", accessTokenVerifierMiddleware, utils.RequireUser, propertyHandler.Create)
		properties.Get("/{id:uint}", optionalUser, propertyHandler.Get)
		properties.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.RequireUser, propertyHandler.Update)
		properties.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.RequireUser, propertyHandler.Delete)
		properties.Post("/{id:uint}/approve", accessTokenVerifierMiddleware, utils.AdminOnly, approvalHandler.Approve)
		properties.Post("/{id:uint}/reject", accessTokenVerifierMiddleware, utils.AdminOnly, approvalHandler.Reject)
		properties.Get("/{id:uint}/approval-history", optionalUser, approvalHandler.History)
	}

	amenities := app.Party("/api/amenities")
	{
		amenities.Get("/", routes.GetAmenities)
		amenities.Post("/", accessTokenVerifierMiddleware, utils.AdminOnly, routes.CreateAmenity)
		amenities.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnly, routes.DeleteAmenity)
	}

	propertyTypes := app.Party("/api/property-types")
	{
		propertyTypes.Get("/", routes.GetPropertyTypes)
		propertyTypes.Post("/", accessTokenVerifierMiddleware, utils.AdminOnly, routes.CreatePropertyType)
		propertyTypes.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnly, routes.DeletePropertyType)
	}

	bookings := app.Party("/api/bookings")
	{
		bookings.Post("/", accessTokenVerifierMiddleware, utils.RequireUser, routes.CreateBooking)
		bookings.Get("/mine", accessTokenVerifierMiddleware, utils.RequireUser, routes.GetMyBookings)
		bookings.Get("/property/{id:uint}", accessTokenVerifierMiddleware, utils.RequireUser, routes.GetPropertyBookings)
		bookings.Patch("/{id:uint}/status", accessTokenVerifierMiddleware, utils.RequireUser, routes.UpdateBookingStatus)
	}

	predict := app.Party("/api/predict")
	{
		predict.Post("/price", optionalUser, predictionHandler.Predict)
		predict.Get("/status", predictionHandler.Status)
		predict.Post("/toggle", accessTokenVerifierMiddleware, utils.AdminOnly, predictionHandler.Toggle)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
