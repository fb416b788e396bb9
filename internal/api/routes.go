package api

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(s.config.Security.AllowOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	s.app.Use(s.metricsMiddleware())

	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := s.app.Group("/api")

	api.Post("/auth/login", s.handleLogin)

	protected := api.Use(s.authMiddleware())

	protected.Post("/chat", s.handleChat)
	protected.Get("/chat/history", s.handleChatHistory)
	protected.Delete("/chat/history", s.handleClearChat)
	protected.Post("/parse", s.handleParse)

	protected.Get("/transactions", s.handleListTransactions)
	protected.Post("/transactions", s.handleCreateTransaction)
	protected.Get("/transactions/:id", s.handleGetTransaction)
	protected.Put("/transactions/:id", s.handleUpdateTransaction)
	protected.Delete("/transactions/:id", s.handleDeleteTransaction)

	protected.Get("/events", s.handleListEvents)
	protected.Post("/events", s.handleCreateEvent)
	protected.Get("/events/:id", s.handleGetEvent)
	protected.Put("/events/:id", s.handleUpdateEvent)
	protected.Delete("/events/:id", s.handleDeleteEvent)
	protected.Post("/events/:id/toggle", s.handleToggleEvent)

	protected.Get("/budgets", s.handleListBudgets)
	protected.Put("/budgets", s.handleSetBudget)
	protected.Delete("/budgets/:id", s.handleDeleteBudget)

	protected.Get("/stats/monthly", s.handleMonthlyStats)
	protected.Get("/stats/balance", s.handleBalance)

	s.app.Use("/ws", s.websocketUpgrade())
	s.app.Get("/ws", websocket.New(s.handleWebSocket))
}

func (s *Server) Start() error {
	return s.app.Listen(s.config.ListenAddr())
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.hub.CloseAll()
	return s.app.ShutdownWithContext(ctx)
}
