package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/aiplanner/backend/api/transport"
	"github.com/aiplanner/backend/domain"
	"github.com/aiplanner/backend/pkg/httpcontext"
	"github.com/aiplanner/backend/usecase/planner"
)

type GoalHandler struct {
	baseHandler
	store *planner.Store
}

func NewGoalHandler(store *planner.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary List goals
// @Tags goals
// @Router /api/v1/goals [get]
func (h *GoalHandler) GetGoals(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.store.Goals())
}

// @Summary Create goal
// @Tags goals
// @Router /api/v1/goals [post]
func (h *GoalHandler) CreateGoal(ctx *fasthttp.RequestCtx) {
	var req transport.GoalRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		h.respondError(ctx, domain.ErrEmptyTitle)
		return
	}

	goal := h.store.AddGoal(domain.GoalDraft{
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	})
	h.respondSuccess(ctx, http.StatusCreated, goal)
}
