package repository

import (
	"context"
	"errors"

	"github.com/spicetrade/backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, buyerID, sellerID uint64, listingID *uint64) (*model.Conversation, error)
	FindByID(ctx context.Context, id uint64) (*model.Conversation, error)
	ListSummaries(ctx context.Context, userID uint64) ([]model.ConversationSummary, error)
	SetDB(db *gorm.DB)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

// FindOrCreate resolves the ordered (buyer, seller) pair to its single
// conversation, creating it on first contact. The unique index on the pair
// serializes concurrent creators: a loser gets ErrDuplicatedKey and re-reads
// the winning row. listingID only matters on creation; an existing row keeps
// whatever listing it was first created with.
func (r *conversationRepository) FindOrCreate(ctx context.Context, buyerID, sellerID uint64, listingID *uint64) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	cv := model.Conversation{BuyerID: buyerID, SellerID: sellerID, ListingID: listingID}
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND seller_id = ?", buyerID, sellerID).
		FirstOrCreate(&cv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = r.db.WithContext(ctx).
			Where("buyer_id = ? AND seller_id = ?", buyerID, sellerID).
			First(&cv).Error
	}
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cv model.Conversation
	if err := r.db.WithContext(ctx).First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

// ListSummaries returns every conversation the user participates in, each
// with its latest message and the count of counterpart messages the user has
// not read yet. Threads with messages come first, newest activity on top;
// empty threads follow, newest first.
func (r *conversationRepository) ListSummaries(ctx context.Context, userID uint64) ([]model.ConversationSummary, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.ConversationSummary
	err := r.db.WithContext(ctx).
		Table("conversations").
		Select(`conversations.*,
			lm.body AS last_message,
			lm.created_at AS last_message_time,
			(SELECT COUNT(*) FROM messages m
				WHERE m.conversation_id = conversations.id
				  AND m.sender_id <> ? AND m.is_read = ?) AS unread_count`,
			userID, false).
		Joins(`LEFT JOIN messages lm ON lm.id =
			(SELECT MAX(m2.id) FROM messages m2 WHERE m2.conversation_id = conversations.id)`).
		Where("conversations.buyer_id = ? OR conversations.seller_id = ?", userID, userID).
		Order("(lm.id IS NULL), COALESCE(lm.created_at, conversations.created_at) DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
