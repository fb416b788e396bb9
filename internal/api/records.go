package api

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
	"github.com/gmsas95/lifetrack/internal/store"
)

func invalidBody() error {
	return apperrors.New(apperrors.ErrBadRequest.Code, "invalid request body")
}

func (s *Server) currentMonth() string {
	return s.assistant.Now().Format(store.MonthLayout)
}

// ==================== Transactions ====================

func (s *Server) handleListTransactions(c *fiber.Ctx) error {
	txs, err := s.store.ListTransactions(c.UserContext(), store.TransactionFilter{
		Month:    c.Query("month"),
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"transactions": txs})
}

func (s *Server) handleCreateTransaction(c *fiber.Ctx) error {
	var t store.Transaction
	if err := c.BodyParser(&t); err != nil {
		return s.fail(c, invalidBody())
	}
	t.ID = ""
	if t.Date == "" {
		t.Date = s.assistant.Now().Format(store.DateLayout)
	}
	if err := s.store.AppendTransaction(c.UserContext(), &t); err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (s *Server) handleGetTransaction(c *fiber.Ctx) error {
	t, err := s.store.GetTransaction(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(t)
}

func (s *Server) handleUpdateTransaction(c *fiber.Ctx) error {
	var t store.Transaction
	if err := c.BodyParser(&t); err != nil {
		return s.fail(c, invalidBody())
	}
	t.ID = c.Params("id")
	if err := s.store.UpdateTransaction(c.UserContext(), &t); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(t)
}

func (s *Server) handleDeleteTransaction(c *fiber.Ctx) error {
	if err := s.store.DeleteTransaction(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ==================== Events ====================

func (s *Server) handleListEvents(c *fiber.Ctx) error {
	events, err := s.store.ListEvents(c.UserContext(), store.EventFilter{
		Date:  c.Query("date"),
		Month: c.Query("month"),
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"events": events})
}

func (s *Server) handleCreateEvent(c *fiber.Ctx) error {
	var e store.Event
	if err := c.BodyParser(&e); err != nil {
		return s.fail(c, invalidBody())
	}
	e.ID = ""
	e.Completed, e.Reminded = false, false
	if e.Date == "" {
		e.Date = s.assistant.Now().Format(store.DateLayout)
	}
	if err := s.store.AppendEvent(c.UserContext(), &e); err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (s *Server) handleGetEvent(c *fiber.Ctx) error {
	e, err := s.store.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(e)
}

func (s *Server) handleUpdateEvent(c *fiber.Ctx) error {
	var e store.Event
	if err := c.BodyParser(&e); err != nil {
		return s.fail(c, invalidBody())
	}
	e.ID = c.Params("id")
	if err := s.store.UpdateEvent(c.UserContext(), &e); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(e)
}

func (s *Server) handleDeleteEvent(c *fiber.Ctx) error {
	if err := s.store.DeleteEvent(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleToggleEvent(c *fiber.Ctx) error {
	e, err := s.store.ToggleEventComplete(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(e)
}

// ==================== Budgets & Stats ====================

func (s *Server) handleListBudgets(c *fiber.Ctx) error {
	budgets, err := s.store.ListBudgets(c.UserContext(), c.Query("month"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"budgets": budgets})
}

func (s *Server) handleSetBudget(c *fiber.Ctx) error {
	var req budgetRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, invalidBody())
	}
	if req.Month == "" {
		req.Month = s.currentMonth()
	}
	b, err := s.store.SetBudget(c.UserContext(), &store.Budget{
		Category: req.Category,
		Amount:   req.Amount,
		Month:    req.Month,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(b)
}

func (s *Server) handleDeleteBudget(c *fiber.Ctx) error {
	if err := s.store.DeleteBudget(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleMonthlyStats(c *fiber.Ctx) error {
	stats, err := s.store.MonthlyStats(c.UserContext(), c.Query("month", s.currentMonth()))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(stats)
}

func (s *Server) handleBalance(c *fiber.Ctx) error {
	balance, err := s.store.TotalBalance(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}
