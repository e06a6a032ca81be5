package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/aiplanner/backend/api/transport"
	"github.com/aiplanner/backend/pkg/httpcontext"
	"github.com/aiplanner/backend/usecase/planner"
)

type SettingsHandler struct {
	baseHandler
	store *planner.Store
}

func NewSettingsHandler(store *planner.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary Current settings
// @Tags settings
// @Router /api/v1/settings [get]
func (h *SettingsHandler) GetSettings(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, transport.SettingsResponse{
		APIKeyConfigured: h.store.APIKey() != "",
		DarkMode:         h.store.DarkMode(),
	})
}

// @Summary Update settings (partial)
// @Tags settings
// @Router /api/v1/settings [put]
func (h *SettingsHandler) UpdateSettings(ctx *fasthttp.RequestCtx) {
	var req transport.SettingsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	if req.APIKey != nil {
		h.store.SetAPIKey(*req.APIKey)
	}
	if req.DarkMode != nil {
		h.store.SetDarkMode(*req.DarkMode)
	}

	h.respondSuccess(ctx, http.StatusOK, transport.SettingsResponse{
		APIKeyConfigured: h.store.APIKey() != "",
		DarkMode:         h.store.DarkMode(),
	})
}
