package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/RichardoC/venue-assistant/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

type MessagesResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

const internalErrorMessage = "An internal server error occurred."

// HandleChat runs one turn of the conversation. A request without a session
// id starts a new session; its id is returned with the reply.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Message is required"})
		return
	}

	session := models.Session{ID: strings.TrimSpace(req.SessionID)}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	reply, err := h.chat.Converse(r.Context(), session, req.Message)
	if err != nil {
		h.logger.Error("Failed to process message",
			zap.Error(err),
			zap.String("session_id", session.ID))
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	h.writeJSON(w, http.StatusOK, ChatResponse{Reply: reply, SessionID: session.ID})
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.db.GetSessionHistory(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to get messages",
			zap.Error(err),
			zap.String("session_id", sessionID))
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	h.writeJSON(w, http.StatusOK, MessagesResponse{Messages: messages})
}
