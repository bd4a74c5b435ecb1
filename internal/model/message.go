package model

import "time"

type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"column:conversation_id;index" json:"conversationId"`
	SenderID       uint64    `gorm:"column:sender_id;index" json:"senderId"`
	Body           string    `gorm:"type:text;not null" json:"message"`
	IsRead         bool      `gorm:"column:is_read;not null;default:false" json:"isRead"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageView is a Message decorated with the sender's display identity for
// transcript responses.
type MessageView struct {
	Message
	SenderName    *string
	SenderEmail   *string
	SenderPicture *string
}
