package utils

import (
	"errors"
	"os"
	"strings"

	"rentverse-server/services"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// Stable error codes surfaced to clients.
const (
	CodeValidation          = "validation_error"
	CodeNotFound            = "not_found"
	CodeAccessDenied        = "access_denied"
	CodeInvalidState        = "invalid_state"
	CodeConflict            = "conflict"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeUpstreamTimeout     = "upstream_timeout"
	CodeInternal            = "internal_error"
)

type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type ErrorBody struct {
	Success bool             `json:"success"`
	Error   string           `json:"error"`
	Message string           `json:"message"`
	Errors  []FieldViolation `json:"errors,omitempty"`
	Detail  string           `json:"detail,omitempty"`
}

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

func isProduction() bool {
	return os.Getenv("APP_ENV") == "production"
}

// Fail writes the standard error envelope. detail is diagnostic text that is
// dropped from production responses.
func Fail(ctx iris.Context, status int, code, message, detail string) {
	body := ErrorBody{Error: code, Message: message}
	if !isProduction() {
		body.Detail = detail
	}
	ctx.StopWithJSON(status, body)
}

func CreateNotFound(ctx iris.Context) {
	Fail(ctx, iris.StatusNotFound, CodeNotFound, "Not found", "")
}

// FailFromError maps service and store errors onto the error taxonomy.
func FailFromError(ctx iris.Context, err error) {
	var validationErr *services.ValidationError
	var stateErr *services.InvalidStateError
	var accessErr *services.AccessDeniedError

	switch {
	case errors.As(err, &validationErr):
		body := ErrorBody{Error: CodeValidation, Message: validationErr.Message}
		if validationErr.Field != "" {
			body.Errors = []FieldViolation{{Field: validationErr.Field, Rule: "invalid", Message: validationErr.Message}}
		}
		ctx.StopWithJSON(iris.StatusBadRequest, body)
	case errors.As(err, &stateErr):
		Fail(ctx, iris.StatusConflict, CodeInvalidState, stateErr.Message, "")
	case errors.As(err, &accessErr):
		Fail(ctx, iris.StatusForbidden, CodeAccessDenied, accessErr.Message, "")
	case errors.Is(err, services.ErrPropertyNotFound), errors.Is(err, services.ErrApprovalNotFound):
		Fail(ctx, iris.StatusNotFound, CodeNotFound, err.Error(), "")
	case errors.Is(err, services.ErrUpstreamTimeout):
		Fail(ctx, iris.StatusGatewayTimeout, CodeUpstreamTimeout, "Prediction service timed out", "")
	case errors.Is(err, services.ErrUpstreamUnavailable):
		Fail(ctx, iris.StatusServiceUnavailable, CodeUpstreamUnavailable, "Prediction service unavailable", "")
	case IsUniqueViolation(err):
		Fail(ctx, iris.StatusConflict, CodeConflict, "Resource already exists", err.Error())
	default:
		Fail(ctx, iris.StatusInternalServerError, CodeInternal, "Something went wrong", err.Error())
	}
}

// IsUniqueViolation recognizes unique-constraint failures across the drivers
// in use (Postgres 23505, sqlite "UNIQUE constraint failed").
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// HandleValidationErrors translates validator tag failures on a request body
// into the typed field-violation list.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		violations := make([]FieldViolation, 0, len(errs))
		for _, fieldErr := range errs {
			violations = append(violations, FieldViolation{
				Field:   fieldErr.Field(),
				Rule:    fieldErr.Tag(),
				Message: "failed on the '" + fieldErr.Tag() + "' rule",
			})
		}
		ctx.StopWithJSON(iris.StatusUnprocessableEntity, ErrorBody{
			Error:   CodeValidation,
			Message: "Invalid request payload",
			Errors:  violations,
		})
		return
	}
	Fail(ctx, iris.StatusBadRequest, CodeValidation, "Invalid request payload", err.Error())
}
