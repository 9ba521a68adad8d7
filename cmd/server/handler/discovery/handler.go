package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/w-h-a/originality"
	videoid "github.com/w-h-a/originality/util/video_id"
)

type Discoverer interface {
	Discover(ctx context.Context, req originality.Request) (*originality.Result, error)
	Collect(ctx context.Context, ids []string) (*originality.Result, error)
	Comments(ctx context.Context, ids []string) (*originality.Result, error)
}

type collectRequest struct {
	Videos []string `json:"videos"`
}

type response struct {
	*originality.Result
	Error string `json:"error,omitempty"`
	Stage string `json:"stage,omitempty"`
}

type discoveryHandler struct {
	discoverer Discoverer
	logger     *slog.Logger
}

func (h *discoveryHandler) Discover(w http.ResponseWriter, r *http.Request) {
	var req originality.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	id, err := videoid.Parse(req.SeedId)
	if err != nil {
		http.Error(w, "seedId: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.SeedId = id

	res, err := h.discoverer.Discover(r.Context(), req)

	h.write(r.Context(), w, res, err)
}

func (h *discoveryHandler) Collect(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.videos(w, r)
	if !ok {
		return
	}

	res, err := h.discoverer.Collect(r.Context(), ids)

	h.write(r.Context(), w, res, err)
}

func (h *discoveryHandler) Comments(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.videos(w, r)
	if !ok {
		return
	}

	res, err := h.discoverer.Comments(r.Context(), ids)

	h.write(r.Context(), w, res, err)
}

// videos reads a {"videos": [...]} body of ids or urls. It answers the
// request itself when the body is unusable.
func (h *discoveryHandler) videos(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return nil, false
	}
	defer r.Body.Close()

	ids := make([]string, 0, len(req.Videos))
	for _, v := range req.Videos {
		id, err := videoid.Parse(v)
		if err != nil {
			http.Error(w, v+": "+err.Error(), http.StatusBadRequest)
			return nil, false
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		http.Error(w, "videos is required", http.StatusBadRequest)
		return nil, false
	}

	return ids, true
}

func (h *discoveryHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// write always sends whatever tables the run produced. A failed run is
// reported with its stage next to the partial result.
func (h *discoveryHandler) write(ctx context.Context, w http.ResponseWriter, res *originality.Result, err error) {
	rsp := response{Result: res}
	status := http.StatusOK

	if err != nil {
		rsp.Error = err.Error()
		status = http.StatusBadGateway

		var se *originality.StageError
		if errors.As(err, &se) {
			rsp.Stage = se.Stage
		}

		switch {
		case errors.Is(err, originality.ErrSeedRequired):
			status = http.StatusBadRequest
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		h.logger.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func NewHandler(d Discoverer) *discoveryHandler {
	if d == nil {
		panic("discoverer is required")
	}

	return &discoveryHandler{
		discoverer: d,
		logger:     slog.Default().With("component", "handler"),
	}
}
