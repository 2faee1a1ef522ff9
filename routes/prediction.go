package routes

import (
	"rentverse-server/services"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12"
)

// PredictionHandler proxies price predictions to the external AI service.
// Upstream failures are reported as failed predictions, never as unhandled
// faults.
type PredictionHandler struct {
	client *services.PredictionClient
}

func NewPredictionHandler(client *services.PredictionClient) *PredictionHandler {
	return &PredictionHandler{client: client}
}

// POST /api/predict/price
func (h *PredictionHandler) Predict(ctx iris.Context) {
	var input services.PredictionRequest
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	result, err := h.client.PredictPrice(ctx.Request().Context(), input)
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": result})
}

// GET /api/predict/status
func (h *PredictionHandler) Status(ctx iris.Context) {
	ctx.JSON(iris.Map{"success": true, "data": h.client.Status()})
}

// POST /api/predict/toggle
func (h *PredictionHandler) Toggle(ctx iris.Context) {
	var input toggleInput
	_ = ctx.ReadJSON(&input)

	actor := utils.RequesterFrom(ctx)
	before := h.client.Status()

	enabled := !before.Enabled
	if input.Enabled != nil {
		enabled = *input.Enabled
	}
	status := h.client.SetEnabled(enabled, actor.ID)

	utils.Audit(ctx, "prediction.toggle", "policy", 0, before, status)
	ctx.JSON(iris.Map{"success": true, "data": status})
}
