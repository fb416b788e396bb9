package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	status := "healthy"
	storage := "ok"
	if err := s.store.Ping(c.UserContext()); err != nil {
		status = "degraded"
		storage = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":      status,
		"version":     Version,
		"storage":     storage,
		"llm_enabled": s.assistant.LLMEnabled(),
		"clients":     s.hub.Count(),
		"uptime":      s.metrics.Uptime().Round(time.Second).String(),
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrBadRequest.Code, "invalid request body"))
	}

	if !s.passwordMatches(req.Password) {
		return s.fail(c, apperrors.New(apperrors.ErrUnauthorized.Code, "invalid credentials"))
	}

	token, err := s.issueToken(time.Now())
	if err != nil {
		return s.fail(c, apperrors.Wrap(err, apperrors.ErrInternal.Code, "failed to generate token"))
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"expires_in": s.config.Security.TokenTTL * 3600,
	})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrBadRequest.Code, "invalid request body"))
	}

	resp, err := s.assistant.Handle(c.UserContext(), req.Message)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(resp)
}

// handleParse runs the rule-based interpreter without storing anything
func (s *Server) handleParse(c *fiber.Ctx) error {
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, apperrors.New(apperrors.ErrBadRequest.Code, "invalid request body"))
	}
	return c.JSON(s.assistant.Preview(req.Message))
}

func (s *Server) handleChatHistory(c *fiber.Ctx) error {
	history, err := s.store.ChatHistory(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"messages": history})
}

func (s *Server) handleClearChat(c *fiber.Ctx) error {
	if err := s.store.ClearChat(c.UserContext()); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
