package service

import (
	"context"
	"fmt"

	"github.com/spicetrade/backend/internal/model"
	"github.com/spicetrade/backend/internal/repository"
)

type ConversationService interface {
	GetOrCreate(ctx context.Context, buyerID, sellerID uint64, listingID *uint64) (*model.Conversation, error)
	ListForUser(ctx context.Context, userID uint64) ([]model.ConversationSummary, error)
}

type conversationService struct {
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
}

func NewConversationService(convRepo repository.ConversationRepository, userRepo repository.UserRepository) ConversationService {
	return &conversationService{convRepo: convRepo, userRepo: userRepo}
}

func (s *conversationService) GetOrCreate(ctx context.Context, buyerID, sellerID uint64, listingID *uint64) (*model.Conversation, error) {
	if buyerID == 0 || sellerID == 0 {
		return nil, fmt.Errorf("%w: buyerId and sellerId are required", ErrInvalidArgument)
	}
	if buyerID == sellerID {
		return nil, fmt.Errorf("%w: cannot start a conversation with yourself", ErrInvalidArgument)
	}
	return s.convRepo.FindOrCreate(ctx, buyerID, sellerID, listingID)
}

func (s *conversationService) ListForUser(ctx context.Context, userID uint64) ([]model.ConversationSummary, error) {
	list, err := s.convRepo.ListSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(list)*2)
	ids := make([]uint64, 0, len(list)*2)
	for _, cv := range list {
		for _, id := range []uint64{cv.BuyerID, cv.SellerID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	profiles, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if u, ok := profiles[list[i].BuyerID]; ok {
			list[i].BuyerName = u.Name
			list[i].BuyerEmail = u.Email
			list[i].BuyerPicture = u.ProfilePicture
		}
		if u, ok := profiles[list[i].SellerID]; ok {
			list[i].SellerName = u.Name
			list[i].SellerEmail = u.Email
			list[i].SellerPicture = u.ProfilePicture
			list[i].StoreName = u.StoreName
		}
	}
	return list, nil
}
