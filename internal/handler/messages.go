package handler

import (
	"log/slog"
	"net/http"

	"github.com/rentalconnect/rentalconnect/internal/service"
)

// SendMessageRequest is the body of POST /api/messages
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	PropertyID string `json:"propertyId"`
	Content    string `json:"content"`
}

// MessageHandler serves the caller's inbox
type MessageHandler struct {
	messages *service.MessageService
	logger   *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages *service.MessageService, logger *slog.Logger) *MessageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageHandler{messages: messages, logger: logger}
}

// List handles GET /api/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	msgs, err := h.messages.Inbox(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, msgs)
}

// Send handles POST /api/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	msg, err := h.messages.Send(r.Context(), id, service.SendInput{
		ReceiverID: req.ReceiverID,
		PropertyID: req.PropertyID,
		Content:    req.Content,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, msg)
}

// MarkRead handles PUT /api/messages/{id}/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	msg, err := h.messages.MarkRead(r.Context(), id, r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, msg)
}
