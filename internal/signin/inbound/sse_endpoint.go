package inbound

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/signin/usecase"
)

const defaultHeartbeat = 25 * time.Second

type SSEEndpoint struct {
	uc        ucStream
	heartbeat time.Duration
}

// StreamFlow streams flow changes to the client using SSE. The first event is
// the full flow state.
// @Summary Stream sign-in flow
// @Description Streams stage, cooldown, code and notification changes using Server-Sent Events (SSE).
// @Tags Signin
// @Produce text/event-stream
// @Param id path string true "Flow ID"
// @Success 200 {string} string "SSE stream"
// @Failure 404 {string} string "Flow not found"
// @Failure 500 {string} string "streaming unsupported"
// @Router /api/v1/signin/flows/{id}/events [get]
func (h *SSEEndpoint) StreamFlow(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	id := httprouter.ParamsFromContext(ctx).ByName("id")
	st, stream, err := h.uc.StreamFlow(ctx, usecase.StreamFlowInput{FlowID: id})
	if err != nil {
		code := http.StatusInternalServerError
		msg := "Internal server error"
		if gerr, ok := goerror.As(err); ok {
			code, msg = gerr.StatusCode(), gerr.Msg()
		}
		http.Error(w, msg, code)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "flow", toFlowResponse(st)); err != nil {
		slog.ErrorContext(ctx, "failed to send flow snapshot", "flow_id", id, "error", err)
		return
	}
	flusher.Flush()

	// heartbeat ping, so proxies won't drop idle connections.
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case evt, ok := <-stream:
			if !ok {
				_ = writeEvent(w, "closed", map[string]string{"id": id})
				flusher.Flush()
				return
			}
			if err := writeEvent(w, string(evt.Kind), toEventResponse(evt)); err != nil {
				slog.ErrorContext(ctx, "failed to send flow event", "flow_id", id, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}
