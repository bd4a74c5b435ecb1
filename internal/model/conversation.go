package model

import "time"

// Conversation pairs one buyer with one seller. The unique index covers the
// ordered (buyer_id, seller_id) pair: the same two users with roles swapped
// get a second row.
type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID   uint64    `gorm:"column:buyer_id;index:idx_buyer_seller,unique" json:"buyerId"`
	SellerID  uint64    `gorm:"column:seller_id;index:idx_buyer_seller,unique" json:"sellerId"`
	ListingID *uint64   `gorm:"column:listing_id" json:"listingId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// ConversationSummary is one inbox row: the conversation plus the latest
// message and the viewer's unread count, as produced by
// ConversationRepository.ListSummaries. Display fields are filled in by the
// service layer from the external user directory.
type ConversationSummary struct {
	Conversation
	LastMessage     *string    `gorm:"->;column:last_message"`
	LastMessageTime *time.Time `gorm:"->;column:last_message_time"`
	UnreadCount     int64      `gorm:"->;column:unread_count"`

	BuyerName     *string `gorm:"-"`
	BuyerEmail    *string `gorm:"-"`
	BuyerPicture  *string `gorm:"-"`
	SellerName    *string `gorm:"-"`
	SellerEmail   *string `gorm:"-"`
	SellerPicture *string `gorm:"-"`
	StoreName     *string `gorm:"-"`
}
