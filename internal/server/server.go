package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spicetrade/backend/internal/handler"
	"github.com/spicetrade/backend/internal/repository"
	"github.com/spicetrade/backend/internal/service"
	"gorm.io/gorm"
)

type Server struct {
	e        *echo.Echo
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
	sha      string
	build    string
}

func New(db *gorm.DB, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			return u.Scheme == "http" || u.Scheme == "https", nil
		},
	}))

	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)

	convSvc := service.NewConversationService(convRepo, userRepo)
	msgSvc := service.NewMessageService(msgRepo, convRepo, userRepo)

	convHandler := handler.NewConversationHandler(convSvc)
	msgHandler := handler.NewMessageHandler(msgSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	api.POST("/conversations", convHandler.Start)
	api.GET("/conversations/:userId", convHandler.List)
	api.GET("/messages/unread/:userId", msgHandler.UnreadCount)
	api.POST("/messages/mark-read/:conversationId", msgHandler.MarkRead)
	api.GET("/messages/:conversationId", msgHandler.List)
	api.POST("/messages", msgHandler.Send)

	return &Server{e: e, convRepo: convRepo, msgRepo: msgRepo, userRepo: userRepo, sha: sha, build: buildTime}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB injects the database connection after startup; the server begins
// serving before the connection is established.
func (s *Server) SetDB(db *gorm.DB) {
	if s.convRepo != nil {
		s.convRepo.SetDB(db)
	}
	if s.msgRepo != nil {
		s.msgRepo.SetDB(db)
	}
	if s.userRepo != nil {
		s.userRepo.SetDB(db)
	}
}
