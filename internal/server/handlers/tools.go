package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/deckhand/deckhand/internal/errors"
	"github.com/deckhand/deckhand/internal/tools"
)

// ToolsHandlers serves the tool registry surface.
type ToolsHandlers struct {
	Registry *tools.Registry
}

// ToolListResponse is the payload for tool listings.
type ToolListResponse struct {
	Tools []*tools.Tool `json:"tools"`
}

// ToolInvokeResponse wraps a successful tool invocation result.
type ToolInvokeResponse struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
}

// ListTools responds with the registered tools.
func (h *ToolsHandlers) ListTools(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Registry == nil {
		respondWithError(w, r, apperrors.NewInternalError("tool registry is not configured"))
		return
	}

	response := ToolListResponse{Tools: h.Registry.List()}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// InvokeTool executes a named tool with the JSON request body as its
// arguments.
func (h *ToolsHandlers) InvokeTool(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Registry == nil {
		respondWithError(w, r, apperrors.NewInternalError("tool registry is not configured"))
		return
	}

	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondWithError(w, r, apperrors.NewInvalidInputError("failed to read request body"))
		return
	}

	result, err := h.Registry.Invoke(r.Context(), name, json.RawMessage(body))
	if err != nil {
		var unknown *tools.UnknownToolError
		var badArgs *tools.ArgumentError
		switch {
		case stderrors.As(err, &unknown):
			respondWithError(w, r, apperrors.NewNotFoundError("unknown tool: "+unknown.Name))
		case stderrors.As(err, &badArgs):
			respondWithError(w, r, apperrors.NewInvalidInputError(badArgs.Error()))
		default:
			respondWithError(w, r, apperrors.FromUpstream(r.Context(), err))
		}
		return
	}

	response := ToolInvokeResponse{Tool: name, Result: result}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
