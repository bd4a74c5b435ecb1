package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spicetrade/backend/internal/model"
	"github.com/spicetrade/backend/internal/repository"
	"gorm.io/gorm"
)

type MessageService interface {
	Append(ctx context.Context, convID, senderID uint64, body string) (*model.Message, error)
	ListMessages(ctx context.Context, convID uint64) ([]model.MessageView, error)
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, convID, viewerID uint64) error
}

type messageService struct {
	msgRepo  repository.MessageRepository
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
}

func NewMessageService(msgRepo repository.MessageRepository, convRepo repository.ConversationRepository, userRepo repository.UserRepository) MessageService {
	return &messageService{msgRepo: msgRepo, convRepo: convRepo, userRepo: userRepo}
}

// Append stores a new unread message. The sender must be one of the
// conversation's two participants; all checks run before anything is written.
func (s *messageService) Append(ctx context.Context, convID, senderID uint64, body string) (*model.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrInvalidArgument)
	}
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: conversation %d", ErrNotFound, convID)
		}
		return nil, err
	}
	if cv.BuyerID != senderID && cv.SellerID != senderID {
		return nil, fmt.Errorf("%w: sender is not a participant", ErrUnauthorized)
	}
	msg := &model.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *messageService) ListMessages(ctx context.Context, convID uint64) ([]model.MessageView, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: conversation %d", ErrNotFound, convID)
		}
		return nil, err
	}
	msgs, err := s.msgRepo.ListByConversation(ctx, convID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.userRepo.FindByIDs(ctx, []uint64{cv.BuyerID, cv.SellerID})
	if err != nil {
		return nil, err
	}
	views := make([]model.MessageView, 0, len(msgs))
	for _, m := range msgs {
		v := model.MessageView{Message: m}
		if u, ok := profiles[m.SenderID]; ok {
			v.SenderName = u.Name
			v.SenderEmail = u.Email
			v.SenderPicture = u.ProfilePicture
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *messageService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.msgRepo.CountUnread(ctx, userID)
}

// MarkRead does not verify that viewerID is a participant; any id is
// accepted and messages not sent by it are flipped to read. Matches the
// behavior the mobile client was built against.
func (s *messageService) MarkRead(ctx context.Context, convID, viewerID uint64) error {
	return s.msgRepo.MarkRead(ctx, convID, viewerID)
}
