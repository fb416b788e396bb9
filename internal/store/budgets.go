package store

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"
)

// SetBudget creates the budget for category+month or updates its amount
func (s *Store) SetBudget(ctx context.Context, b *Budget) (*Budget, error) {
	switch {
	case strings.TrimSpace(b.Category) == "":
		return nil, badRequest("category is required")
	case !validMonth(b.Month):
		return nil, badRequest("month must be YYYY-MM")
	case b.Amount <= 0:
		return nil, badRequest("amount must be positive")
	}

	db := s.db.WithContext(ctx)

	var existing Budget
	err := db.Where("category = ? AND month = ?", b.Category, b.Month).First(&existing).Error
	switch {
	case err == nil:
		existing.Amount = b.Amount
		if err := db.Save(&existing).Error; err != nil {
			return nil, writeErr(err, "budget")
		}
		return &existing, nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		created := &Budget{Category: b.Category, Month: b.Month, Amount: b.Amount}
		if err := db.Create(created).Error; err != nil {
			return nil, writeErr(err, "budget")
		}
		return created, nil
	default:
		return nil, readErr(err, "budget", "")
	}
}

// ListBudgets returns the budgets of a month, or all budgets when month is empty
func (s *Store) ListBudgets(ctx context.Context, month string) ([]Budget, error) {
	q := s.db.WithContext(ctx).Model(&Budget{})
	if month != "" {
		if !validMonth(month) {
			return nil, badRequest("month must be YYYY-MM")
		}
		q = q.Where("month = ?", month)
	}

	var budgets []Budget
	if err := q.Order("month DESC, category ASC").Find(&budgets).Error; err != nil {
		return nil, readErr(err, "budgets", "")
	}
	return budgets, nil
}

// DeleteBudget removes a budget
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&Budget{}, "id = ?", id)
	if res.Error != nil {
		return writeErr(res.Error, "budget")
	}
	if res.RowsAffected == 0 {
		return notFound("budget", id)
	}
	return nil
}
