package repository

import (
	"context"
	"testing"
	"time"

	"github.com/spicetrade/backend/internal/model"
	"gorm.io/gorm"
)

func TestFindOrCreateIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := repo.FindOrCreate(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("got two conversations %d and %d for the same pair", first.ID, second.ID)
	}

	var n int64
	if err := db.Model(&model.Conversation{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("row count = %d, want 1", n)
	}
}

func TestFindOrCreateRoleSwapMakesSecondConversation(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	ab, err := repo.FindOrCreate(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("pair (1,2): %v", err)
	}
	ba, err := repo.FindOrCreate(ctx, 2, 1, nil)
	if err != nil {
		t.Fatalf("pair (2,1): %v", err)
	}
	if ab.ID == ba.ID {
		t.Fatalf("swapped roles resolved to the same conversation %d", ab.ID)
	}
}

func TestFindOrCreateLostRaceReturnsWinningRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	// Simulate losing the lookup-then-insert race: a competing writer
	// commits the (1,2) row after our lookup misses but before our insert
	// runs, so the insert hits the unique pair index.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	raced := false
	err = db.Callback().Create().Before("gorm:create").Register("competing_writer", func(tx *gorm.DB) {
		if raced {
			return
		}
		raced = true
		if _, err := sqlDB.Exec(
			"INSERT INTO conversations (buyer_id, seller_id, created_at) VALUES (?, ?, ?)",
			1, 2, time.Now()); err != nil {
			t.Errorf("competing insert: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	cv, err := repo.FindOrCreate(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("find or create: %v", err)
	}
	if !raced {
		t.Fatal("competing writer never ran")
	}

	var winner model.Conversation
	if err := db.Where("buyer_id = ? AND seller_id = ?", 1, 2).First(&winner).Error; err != nil {
		t.Fatalf("read winner: %v", err)
	}
	if cv.ID != winner.ID {
		t.Fatalf("resolved id %d, want winning row %d", cv.ID, winner.ID)
	}

	var n int64
	if err := db.Model(&model.Conversation{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("row count = %d, want 1", n)
	}
}

func TestFindOrCreateFirstContactListingWins(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	ten := uint64(10)
	ninetyNine := uint64(99)

	first, err := repo.FindOrCreate(ctx, 1, 2, &ten)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := repo.FindOrCreate(ctx, 1, 2, &ninetyNine)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing conversation, got %d and %d", first.ID, second.ID)
	}
	if second.ListingID == nil || *second.ListingID != 10 {
		t.Fatalf("listing changed on repeat contact: %v", second.ListingID)
	}
}

func TestListSummariesOrderingAndAggregates(t *testing.T) {
	db := newTestDB(t)
	convRepo := NewConversationRepository(db)
	msgRepo := NewMessageRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Three threads for user 1: stale (old messages), active (newer
	// messages), empty (no messages yet).
	stale, err := convRepo.FindOrCreate(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("stale: %v", err)
	}
	active, err := convRepo.FindOrCreate(ctx, 1, 3, nil)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	empty, err := convRepo.FindOrCreate(ctx, 4, 1, nil)
	if err != nil {
		t.Fatalf("empty: %v", err)
	}

	msgs := []model.Message{
		{ConversationID: stale.ID, SenderID: 1, Body: "hello", CreatedAt: base},
		{ConversationID: stale.ID, SenderID: 2, Body: "hi back", CreatedAt: base.Add(time.Minute)},
		{ConversationID: active.ID, SenderID: 3, Body: "is this available?", CreatedAt: base.Add(2 * time.Hour)},
		{ConversationID: active.ID, SenderID: 3, Body: "still there?", CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range msgs {
		if err := msgRepo.Create(ctx, &msgs[i]); err != nil {
			t.Fatalf("seed message %d: %v", i, err)
		}
	}

	list, err := convRepo.ListSummaries(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].ID != active.ID || list[1].ID != stale.ID || list[2].ID != empty.ID {
		t.Fatalf("order = [%d %d %d], want [%d %d %d]",
			list[0].ID, list[1].ID, list[2].ID, active.ID, stale.ID, empty.ID)
	}

	if list[0].LastMessage == nil || *list[0].LastMessage != "still there?" {
		t.Fatalf("active lastMessage = %v", list[0].LastMessage)
	}
	if list[0].UnreadCount != 2 {
		t.Fatalf("active unread = %d, want 2", list[0].UnreadCount)
	}
	if list[1].UnreadCount != 1 {
		t.Fatalf("stale unread = %d, want 1", list[1].UnreadCount)
	}
	if list[2].LastMessage != nil || list[2].UnreadCount != 0 {
		t.Fatalf("empty thread has lastMessage=%v unread=%d", list[2].LastMessage, list[2].UnreadCount)
	}
}

func TestListSummariesExcludesOtherUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()

	if _, err := repo.FindOrCreate(ctx, 1, 2, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.FindOrCreate(ctx, 3, 4, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, err := repo.ListSummaries(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
}

func TestRepositoryNotReady(t *testing.T) {
	repo := NewConversationRepository(nil)
	if _, err := repo.FindOrCreate(context.Background(), 1, 2, nil); err != ErrDBNotReady {
		t.Fatalf("err = %v, want ErrDBNotReady", err)
	}
}
