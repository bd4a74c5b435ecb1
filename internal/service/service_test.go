package service

import (
	"path/filepath"
	"testing"

	"github.com/spicetrade/backend/internal/model"
	"github.com/spicetrade/backend/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db      *gorm.DB
	convSvc ConversationService
	msgSvc  MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Conversation{}, &model.Message{}, &model.UserProfile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)
	return &testEnv{
		db:      db,
		convSvc: NewConversationService(convRepo, userRepo),
		msgSvc:  NewMessageService(msgRepo, convRepo, userRepo),
	}
}

func (e *testEnv) seedUser(t *testing.T, id uint64, name string) {
	t.Helper()
	u := model.UserProfile{ID: id, Name: &name}
	if err := e.db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
}
