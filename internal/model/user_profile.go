package model

// UserProfile is a read-only view of the externally owned users table.
// Account storage belongs to another service; this one only looks up display
// identities to enrich conversation and message payloads.
type UserProfile struct {
	ID             uint64  `gorm:"primaryKey"`
	Name           *string `gorm:"column:name"`
	Email          *string `gorm:"column:email"`
	ProfilePicture *string `gorm:"column:profile_picture"`
	StoreName      *string `gorm:"column:store_name"`
}

func (UserProfile) TableName() string {
	return "users"
}
