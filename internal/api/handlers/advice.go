package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advice"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/advisor"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/api/response"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/pipeline"
)

// AdviceHandler handles mulligan advice requests.
type AdviceHandler struct {
	service *pipeline.Service
}

// NewAdviceHandler creates a new AdviceHandler.
func NewAdviceHandler(service *pipeline.Service) *AdviceHandler {
	return &AdviceHandler{service: service}
}

// GetAdvice evaluates one opening hand.
func (h *AdviceHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	var req advice.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.service.GetAdvice(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, advice.ErrInvalidInput):
			response.BadRequest(w, err)
		case errors.Is(err, advisor.ErrModelUnavailable):
			response.ServiceUnavailable(w, errors.New("advice is temporarily unavailable"))
		default:
			response.InternalError(w, fmt.Errorf("failed to get advice: %w", err))
		}
		return
	}

	response.Success(w, result)
}
