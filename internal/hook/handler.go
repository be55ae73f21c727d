// Package hook receives now-playing pushes from the web player over HTTP and
// hands it queued playback commands.
package hook

import (
	"encoding/json"
	"net/http"

	"github.com/genricoloni/lyrical/internal/domain"
	"go.uber.org/zap"
)

const (
	// Source tags pushes made through the hook
	Source = "hook"

	// maxBodySize caps a single push
	maxBodySize = 1 << 20
)

// SongSink receives merged song pushes
type SongSink interface {
	Push(source string, patch domain.SongPatch)
}

// ControlResponse is the body of GET /control
type ControlResponse struct {
	Actions []domain.Action `json:"actions"`
	Raise   bool            `json:"raise"`
}

// Handler exposes the hook endpoints
type Handler struct {
	logger *zap.Logger
	sink   SongSink
	queue  *ActionQueue
}

// NewHandler creates the hook handler
func NewHandler(logger *zap.Logger, sink SongSink, queue *ActionQueue) *Handler {
	return &Handler{logger: logger, sink: sink, queue: queue}
}

// PostHook handles POST /hook. The body is a partial song state; absent
// fields are left unchanged by the host.
func (h *Handler) PostHook(w http.ResponseWriter, r *http.Request) {
	var patch domain.SongPatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&patch); err != nil {
		h.logger.Debug("Invalid hook body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.sink.Push(Source, patch)
	w.WriteHeader(http.StatusNoContent)
}

// GetControl handles GET /control and drains the queued actions
func (h *Handler) GetControl(w http.ResponseWriter, r *http.Request) {
	actions, raise := h.queue.Drain()
	if actions == nil {
		actions = []domain.Action{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ControlResponse{Actions: actions, Raise: raise}); err != nil {
		h.logger.Warn("Failed to write control response", zap.Error(err))
	}
}
