package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/chat"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/llm"
	"github.com/povarna/generative-ai-agents/chat-assistant/internal/models"
	"github.com/rs/zerolog"
)

const (
	ModeProvider = "provider"
	ModeFallback = "fallback"
)

type ChatService interface {
	Submit(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
	Status() llm.Status
}

type HealthResponse struct {
	Status   string `json:"status" description:"Service status"`
	Version  string `json:"version" description:"API version"`
	Mode     string `json:"mode" description:"provider or fallback"`
	Provider string `json:"provider,omitempty" description:"Configured completion provider"`
	Detail   string `json:"detail,omitempty" description:"Why the provider client could not be built"`
}

type Handler struct {
	service ChatService
	logger  *zerolog.Logger
}

func NewHandler(service ChatService, logger *zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// POST /api/chat
// Body: ChatRequest
// Returns: ChatResponse
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var chatRequest models.ChatRequest
	if err := req.ReadEntity(&chatRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, middleware.ErrInvalidBody, http.StatusBadRequest)
		return
	}

	ctx := req.Request.Context()

	chatResponse, err := h.service.Submit(ctx, chatRequest)
	if err != nil {
		status := chat.HTTPStatus(err)

		var serverErr *chat.ServerError
		if errors.As(err, &serverErr) {
			h.logger.Error().Err(serverErr.Err).Msg("Completion failed")
		} else {
			h.logger.Warn().Err(err).Int("status", status).Msg("Rejected chat request")
		}

		middleware.HandleError(resp, err, status)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, chatResponse)
}

// Health handler GET API /api/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	status := h.service.Status()

	healthResponse := HealthResponse{
		Status:   "ok",
		Version:  "1.0.0",
		Mode:     ModeFallback,
		Provider: status.Provider,
	}
	if status.Available {
		healthResponse.Mode = ModeProvider
	}
	if status.Err != nil {
		healthResponse.Detail = status.Err.Error()
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
