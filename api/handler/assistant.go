package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/aiplanner/backend/api/transport"
	"github.com/aiplanner/backend/pkg/httpcontext"
	"github.com/aiplanner/backend/usecase/assistant"
	"github.com/aiplanner/backend/usecase/planner"
)

type AssistantHandler struct {
	baseHandler
	store     *planner.Store
	assistant *assistant.UseCase
}

func NewAssistantHandler(store *planner.Store, assistantUC *assistant.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
		assistant:   assistantUC,
	}
}

// @Summary Current suggestion list
// @Tags assistant
// @Router /api/v1/suggestions [get]
func (h *AssistantHandler) GetSuggestions(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.store.Suggestions())
}

// @Summary Refresh productivity suggestions
// @Tags assistant
// @Router /api/v1/suggestions/refresh [post]
func (h *AssistantHandler) RefreshSuggestions(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.assistantContext(ctx)
	defer cancel()

	list, err := h.assistant.RefreshSuggestions(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, list)
}

// @Summary Chat transcript
// @Tags assistant
// @Router /api/v1/chat [get]
func (h *AssistantHandler) GetChat(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.store.Chat())
}

// @Summary Send a chat message
// @Tags assistant
// @Router /api/v1/chat/messages [post]
func (h *AssistantHandler) SendChat(ctx *fasthttp.RequestCtx) {
	var req transport.ChatRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.assistantContext(ctx)
	defer cancel()

	reply, err := h.assistant.SendChat(stdCtx, req.Message)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reply)
}
