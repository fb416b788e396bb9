package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gmsas95/lifetrack/internal/assistant"
	"github.com/gmsas95/lifetrack/internal/config"
	"github.com/gmsas95/lifetrack/internal/metrics"
	"github.com/gmsas95/lifetrack/internal/store"
)

// Version is reported by the health endpoint
var Version = "0.1.0"

type Server struct {
	app       *fiber.App
	config    *config.Config
	store     *store.Store
	assistant *assistant.Assistant
	metrics   *metrics.Metrics
	hub       *Hub
	logger    *zap.Logger
}

func New(cfg *config.Config, st *store.Store, a *assistant.Assistant, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Default()
	}

	s := &Server{
		config:    cfg,
		store:     st,
		assistant: a,
		metrics:   m,
		hub:       NewHub(m, logger),
		logger:    logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "lifetrack",
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.setupRoutes()
	return s
}

// App exposes the fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Hub returns the websocket hub, which doubles as a reminder notifier
func (s *Server) Hub() *Hub {
	return s.hub
}

type messageRequest struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type budgetRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    string  `json:"month"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
