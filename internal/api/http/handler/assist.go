package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/clouddocs/server/internal/assist"
	"github.com/clouddocs/server/internal/logger"
	"github.com/clouddocs/server/internal/model"
)

// AssistService defines the suggestion operations used by the handlers.
type AssistService interface {
	SuggestTags(ctx context.Context, filename string) assist.TagSuggestion
	SuggestFilename(ctx context.Context, original string) assist.NameSuggestion
}

// Assist handles tag and filename suggestion requests.
type Assist struct {
	service AssistService
	logger  *logger.Logger
}

// NewAssist creates assist handlers.
func NewAssist(service AssistService, logger *logger.Logger) *Assist {
	return &Assist{
		service: service,
		logger:  logger,
	}
}

// SuggestTags returns up to three suggested tags for a filename.
// Suggestion failures are not request failures; the response is a marked
// fallback instead.
func (h *Assist) SuggestTags(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		HandleError(w, h.logger, fmt.Errorf("%w: filename query parameter required", model.ErrInvalidArgument))
		return
	}

	suggestion := h.service.SuggestTags(r.Context(), filename)

	if err := WriteJSON(w, http.StatusOK, suggestion); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// SuggestName returns a cleaned-up filename suggestion.
func (h *Assist) SuggestName(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		HandleError(w, h.logger, fmt.Errorf("%w: filename query parameter required", model.ErrInvalidArgument))
		return
	}

	suggestion := h.service.SuggestFilename(r.Context(), filename)

	if err := WriteJSON(w, http.StatusOK, suggestion); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}
