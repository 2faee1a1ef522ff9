package routes

import (
	"rentverse-server/models"
	"rentverse-server/services"
	"rentverse-server/storage"
	"rentverse-server/utils"

	"github.com/kataras/iris/v12"
)

// ApprovalHandler serves the review workflow: the pending queue, decisions,
// history, the auto-approve policy and the status repair operation. The
// policy is injected rather than read from a package global so its owner is
// explicit.
type ApprovalHandler struct {
	approvals *services.ApprovalService
	policy    *services.AutoApprovePolicy
}

func NewApprovalHandler(approvals *services.ApprovalService, policy *services.AutoApprovePolicy) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals, policy: policy}
}

type decisionInput struct {
	Notes string `json:"notes"`
}

type toggleInput struct {
	Enabled *bool `json:"enabled"`
}

// GET /api/properties/pending-approvals
func (h *ApprovalHandler) PendingApprovals(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("limit", 25)
	if perPage <= 0 || perPage > maxPageSize {
		perPage = 25
	}

	rows, total, err := h.approvals.PendingReview(page, perPage)
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}
	utils.JSONPage(ctx, rows, page, perPage, total)
}

// POST /api/properties/{id}/approve
func (h *ApprovalHandler) Approve(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.Fail(ctx, iris.StatusBadRequest, utils.CodeValidation, "Invalid property id", "")
		return
	}

	var input decisionInput
	_ = ctx.ReadJSON(&input) // notes are optional on approval

	reviewer := utils.RequesterFrom(ctx)
	property, err := h.approvals.Approve(id, reviewer.ID, input.Notes)
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	utils.Audit(ctx, "property.approve", "property", property.ID, nil, property)
	ctx.JSON(iris.Map{"success": true, "data": property})
}

// POST /api/properties/{id}/reject
func (h *ApprovalHandler) Reject(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.Fail(ctx, iris.StatusBadRequest, utils.CodeValidation, "Invalid property id", "")
		return
	}

	var input decisionInput
	_ = ctx.ReadJSON(&input) // blank notes are caught below, before any lookup

	reviewer := utils.RequesterFrom(ctx)
	property, err := h.approvals.Reject(id, reviewer.ID, input.Notes)
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	utils.Audit(ctx, "property.reject", "property", property.ID, nil, property)
	ctx.JSON(iris.Map{"success": true, "data": property})
}

// GET /api/properties/{id}/approval-history
func (h *ApprovalHandler) History(ctx iris.Context) {
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
	if res.RowsAffected == 0 || !services.CanViewProperty(&property, utils.RequesterFrom(ctx)) {
		utils.CreateNotFound(ctx)
		return
	}

	rows, err := h.approvals.History(id)
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": rows})
}

// GET /api/properties/auto-approve/status
func (h *ApprovalHandler) AutoApproveStatus(ctx iris.Context) {
	ctx.JSON(iris.Map{"success": true, "data": h.policy.Status()})
}

// POST /api/properties/auto-approve/toggle
func (h *ApprovalHandler) ToggleAutoApprove(ctx iris.Context) {
	var input toggleInput
	_ = ctx.ReadJSON(&input) // an empty body flips the current value

	actor := utils.RequesterFrom(ctx)
	before := h.policy.Status()

	enabled := !before.Enabled
	if input.Enabled != nil {
		enabled = *input.Enabled
	}
	status := h.policy.Set(enabled, actor.ID)

	utils.Audit(ctx, "property.auto_approve_toggle", "policy", 0, before, status)
	ctx.JSON(iris.Map{"success": true, "data": status})
}

// POST /api/properties/fix-approval-inconsistency
func (h *ApprovalHandler) FixInconsistencies(ctx iris.Context) {
	fixed, err := h.approvals.FixInconsistencies()
	if err != nil {
		utils.FailFromError(ctx, err)
		return
	}

	utils.Audit(ctx, "property.fix_approval_inconsistency", "property", 0, nil, iris.Map{"fixed": fixed})
	ctx.JSON(iris.Map{"success": true, "fixed": fixed})
}
