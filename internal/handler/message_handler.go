package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spicetrade/backend/internal/model"
	"github.com/spicetrade/backend/internal/service"
)

type MessageHandler struct {
	svc service.MessageService
}

func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type SendMessageRequest struct {
	ConversationID uint64 `json:"conversationId"`
	SenderID       uint64 `json:"senderId"`
	Message        string `json:"message"`
}

type SendMessageResponse struct {
	Success   bool   `json:"success"`
	MessageID uint64 `json:"messageId"`
}

type MarkReadRequest struct {
	UserID uint64 `json:"userId"`
}

type MessageResponse struct {
	ID             uint64  `json:"id"`
	ConversationID uint64  `json:"conversationId"`
	SenderID       uint64  `json:"senderId"`
	Message        string  `json:"message"`
	CreatedAt      string  `json:"createdAt"`
	SenderName     *string `json:"senderName"`
	SenderEmail    *string `json:"senderEmail"`
	SenderPicture  *string `json:"senderPicture"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

func toMessageResponse(v model.MessageView) MessageResponse {
	return MessageResponse{
		ID:             v.ID,
		ConversationID: v.ConversationID,
		SenderID:       v.SenderID,
		Message:        v.Body,
		CreatedAt:      v.CreatedAt.Format(time.RFC3339),
		SenderName:     v.SenderName,
		SenderEmail:    v.SenderEmail,
		SenderPicture:  v.SenderPicture,
	}
}

func (h *MessageHandler) List(c echo.Context) error {
	convID, err := strconv.ParseUint(c.Param("conversationId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	msgs, err := h.svc.ListMessages(c.Request().Context(), convID)
	if err != nil {
		return writeServiceError(c, err)
	}
	resp := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *MessageHandler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.Append(c.Request().Context(), req.ConversationID, req.SenderID, req.Message)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, SendMessageResponse{
		Success:   true,
		MessageID: msg.ID,
	})
}

func (h *MessageHandler) UnreadCount(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid user id"))
	}
	n, err := h.svc.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, UnreadCountResponse{UnreadCount: n})
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	convID, err := strconv.ParseUint(c.Param("conversationId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	var req MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.svc.MarkRead(c.Request().Context(), convID, req.UserID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
