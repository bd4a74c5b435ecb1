package repository

import (
	"context"

	"github.com/spicetrade/backend/internal/model"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	ListByConversation(ctx context.Context, convID uint64) ([]model.Message, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, convID, viewerID uint64) error
	SetDB(db *gorm.DB)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) ListByConversation(ctx context.Context, convID uint64) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// CountUnread spans every conversation the user participates in: messages
// sent by the counterpart that the user has not read yet.
func (r *messageRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Joins("JOIN conversations c ON c.id = messages.conversation_id").
		Where("c.buyer_id = ? OR c.seller_id = ?", userID, userID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

// MarkRead flips every unread message in the conversation not sent by
// viewerID. Nothing to update is not an error.
func (r *messageRepository) MarkRead(ctx context.Context, convID, viewerID uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", convID, viewerID, false).
		Update("is_read", true).Error
}
