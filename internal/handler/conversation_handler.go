package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spicetrade/backend/internal/model"
	"github.com/spicetrade/backend/internal/service"
)

type ConversationHandler struct {
	svc service.ConversationService
}

func NewConversationHandler(svc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type StartConversationRequest struct {
	BuyerID   uint64  `json:"buyerId"`
	SellerID  uint64  `json:"sellerId"`
	ListingID *uint64 `json:"listingId"`
}

type StartConversationResponse struct {
	Success        bool   `json:"success"`
	ConversationID uint64 `json:"conversationId"`
}

type ConversationSummaryResponse struct {
	ID              uint64  `json:"id"`
	BuyerID         uint64  `json:"buyerId"`
	SellerID        uint64  `json:"sellerId"`
	ListingID       *uint64 `json:"listingId"`
	CreatedAt       string  `json:"createdAt"`
	BuyerName       *string `json:"buyerName"`
	BuyerEmail      *string `json:"buyerEmail"`
	BuyerPicture    *string `json:"buyerPicture"`
	SellerName      *string `json:"sellerName"`
	SellerEmail     *string `json:"sellerEmail"`
	SellerPicture   *string `json:"sellerPicture"`
	StoreName       *string `json:"storeName"`
	LastMessage     *string `json:"lastMessage"`
	LastMessageTime *string `json:"lastMessageTime"`
	UnreadCount     int64   `json:"unreadCount"`
}

func toSummaryResponse(cv model.ConversationSummary) ConversationSummaryResponse {
	resp := ConversationSummaryResponse{
		ID:            cv.ID,
		BuyerID:       cv.BuyerID,
		SellerID:      cv.SellerID,
		ListingID:     cv.ListingID,
		CreatedAt:     cv.CreatedAt.Format(time.RFC3339),
		BuyerName:     cv.BuyerName,
		BuyerEmail:    cv.BuyerEmail,
		BuyerPicture:  cv.BuyerPicture,
		SellerName:    cv.SellerName,
		SellerEmail:   cv.SellerEmail,
		SellerPicture: cv.SellerPicture,
		StoreName:     cv.StoreName,
		LastMessage:   cv.LastMessage,
		UnreadCount:   cv.UnreadCount,
	}
	if cv.LastMessageTime != nil {
		t := cv.LastMessageTime.Format(time.RFC3339)
		resp.LastMessageTime = &t
	}
	return resp
}

func (h *ConversationHandler) Start(c echo.Context) error {
	var req StartConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	cv, err := h.svc.GetOrCreate(c.Request().Context(), req.BuyerID, req.SellerID, req.ListingID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, StartConversationResponse{
		Success:        true,
		ConversationID: cv.ID,
	})
}

func (h *ConversationHandler) List(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid user id"))
	}
	convs, err := h.svc.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	resp := make([]ConversationSummaryResponse, 0, len(convs))
	for _, cv := range convs {
		resp = append(resp, toSummaryResponse(cv))
	}
	return c.JSON(http.StatusOK, resp)
}
