package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/voltmesh/load-distributor/internal/catalog"
	"github.com/voltmesh/load-distributor/internal/distributor"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires distributor and catalog dependencies into HTTP handlers.
type Handler struct {
	distributor distributor.Distributor
	catalog     catalog.Store

	clock func() time.Time

	mu             sync.RWMutex
	typesUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(dist distributor.Distributor, store catalog.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		distributor: dist,
		catalog:     store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.typesUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetTransformerTypes(w http.ResponseWriter, r *http.Request) {
	_ = r
	types, err := h.catalog.GetTypes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := transformerTypesResponse{
		TransformerTypes: types,
		UpdatedAt:        h.currentTypesUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutTransformerTypes(w http.ResponseWriter, r *http.Request) {
	var req transformerTypesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.TransformerTypes) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid transformer types", "transformerTypes must contain at least one type")
		return
	}

	if err := h.catalog.SetTypes(req.TransformerTypes); err != nil {
		if errors.Is(err, catalog.ErrInvalidTypes) {
			writeError(w, http.StatusBadRequest, "Invalid transformer types", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markTypesUpdated()

	types, err := h.catalog.GetTypes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := transformerTypesResponse{
		TransformerTypes: types,
		UpdatedAt:        h.currentTypesUpdatedAt(),
		Message:          "Transformer types updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := validateGroups(req.LoadGroups); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid load groups", err.Error())
		return
	}

	types, err := h.catalog.GetTypes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	start := time.Now()
	result, distErr := h.distributor.Distribute(req.LoadGroups, types)
	elapsed := time.Since(start)

	if distErr != nil {
		switch {
		case errors.Is(distErr, distributor.ErrEmptyCatalog),
			errors.Is(distErr, distributor.ErrInvalidCatalog):
			writeError(w, http.StatusInternalServerError, "Internal error", distErr.Error())
		default:
			writeInternalError(w, distErr)
		}
		return
	}

	resp := distributeResponse{
		DistributionResult: result,
		CalculationTimeMs:  elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func validateGroups(groups []distributor.LoadGroupSpec) error {
	for i, g := range groups {
		if g.ID == "" {
			return fmt.Errorf("loadGroups[%d]: id must not be empty", i)
		}
		if g.Count <= 0 {
			return fmt.Errorf("loadGroups[%d]: count must be a positive integer", i)
		}
		if g.CDLPerMeter < 0 {
			return fmt.Errorf("loadGroups[%d]: cdlPerMeter must not be negative", i)
		}
		if g.Capacity <= 0 {
			return fmt.Errorf("loadGroups[%d]: capacity must be a positive integer", i)
		}
	}
	return nil
}

func (h *Handler) currentTypesUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.typesUpdatedAt
}

func (h *Handler) markTypesUpdated() {
	h.mu.Lock()
	h.typesUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type transformerTypesRequest struct {
	TransformerTypes []distributor.TransformerType `json:"transformerTypes"`
}

type distributeRequest struct {
	LoadGroups []distributor.LoadGroupSpec `json:"loadGroups"`
}

type distributeResponse struct {
	*distributor.DistributionResult
	CalculationTimeMs int64 `json:"calculationTimeMs"`
}

type transformerTypesResponse struct {
	TransformerTypes []distributor.TransformerType `json:"transformerTypes"`
	UpdatedAt        time.Time                     `json:"updatedAt"`
	Message          string                        `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
