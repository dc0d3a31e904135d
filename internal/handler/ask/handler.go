package ask

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okrause/elaborate/internal/config"
	"github.com/okrause/elaborate/internal/service/assistant"
	"github.com/okrause/elaborate/pkg/utils"
)

// Generator produces a completion for a transcript and a system prompt.
type Generator interface {
	Elaborate(ctx context.Context, transcript, systemPrompt string) (string, error)
}

// Handler serves the completion endpoint.
type Handler struct {
	generator Generator
	prompts   config.PromptConfig
}

// New creates an ask handler.
func New(generator Generator, prompts config.PromptConfig) *Handler {
	return &Handler{generator: generator, prompts: prompts}
}

// RegisterRoutes mounts the ask endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ask", h.handleAsk)
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var payload assistant.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Follow-up requests arrive without a system prompt.
	systemPrompt := payload.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = h.prompts.Followup
	}

	reply, err := h.generator.Elaborate(r.Context(), payload.Transcript, systemPrompt)
	if err != nil {
		log.Printf("[ask] completion failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "completion failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, assistant.AskResponse{Response: reply})
}
