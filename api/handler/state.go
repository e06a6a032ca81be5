package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/aiplanner/backend/pkg/httpcontext"
	"github.com/aiplanner/backend/usecase/planner"
)

// LoadingSource reports whether an AI completion is in flight; the snapshot
// carries it so the UI can disable redundant actions.
type LoadingSource interface {
	Loading() bool
}

type StateHandler struct {
	baseHandler
	store   *planner.Store
	loading LoadingSource
}

func NewStateHandler(store *planner.Store, loading LoadingSource, adapter *httpcontext.Adapter, logger *zap.Logger) *StateHandler {
	return &StateHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
		loading:     loading,
	}
}

// @Summary Full application state snapshot
// @Tags state
// @Router /api/v1/state [get]
func (h *StateHandler) GetState(ctx *fasthttp.RequestCtx) {
	snap := h.store.Snapshot()
	if h.loading != nil {
		snap.Loading = h.loading.Loading()
	}
	h.respondSuccess(ctx, http.StatusOK, snap)
}

// @Summary Dashboard counters
// @Tags state
// @Router /api/v1/dashboard [get]
func (h *StateHandler) GetDashboard(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.store.Snapshot().Dashboard())
}
