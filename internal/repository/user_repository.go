package repository

import (
	"context"

	"github.com/spicetrade/backend/internal/model"
	"gorm.io/gorm"
)

// UserRepository is a lookup-only adapter over the account service's users
// table. This service never writes or migrates it.
type UserRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.UserProfile, error)
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]model.UserProfile, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	out := make(map[uint64]model.UserProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []model.UserProfile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
