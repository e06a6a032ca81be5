package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/aiplanner/backend/pkg/logger"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context carrying a
// request ID and, for ordinary requests, a deadline.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with the adapter's timeout and a request ID.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
	return a.enrich(ctx, stdCtx), cancel
}

// AttachDetached creates a context with a request ID but no deadline. The
// assistant endpoints use it: completions carry no timeout, a slow reply is
// simply awaited.
func (a *Adapter) AttachDetached(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithCancel(context.Background())
	return a.enrich(ctx, stdCtx), cancel
}

func (a *Adapter) enrich(ctx *fasthttp.RequestCtx, stdCtx context.Context) context.Context {
	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	if ctx != nil {
		ctx.Response.Header.Set("X-Request-ID", reqID)
	}
	return stdCtx
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
