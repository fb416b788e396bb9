package store

import (
	"context"
)

type typeSum struct {
	Type     string
	Category string
	Total    float64
}

// MonthlyStats totals a month of transactions and compares spending with budgets
func (s *Store) MonthlyStats(ctx context.Context, month string) (*MonthlyStats, error) {
	if !validMonth(month) {
		return nil, badRequest("month must be YYYY-MM")
	}

	var sums []typeSum
	err := s.db.WithContext(ctx).Model(&Transaction{}).
		Select("type, category, SUM(amount) AS total").
		Where("date LIKE ?", month+"-%").
		Group("type, category").
		Scan(&sums).Error
	if err != nil {
		return nil, readErr(err, "stats", month)
	}

	stats := &MonthlyStats{
		Month:      month,
		ByCategory: make(map[string]float64),
		Budgets:    []BudgetUsage{},
	}
	for _, sum := range sums {
		switch sum.Type {
		case TypeIncome:
			stats.Income += sum.Total
		case TypeExpense:
			stats.Expense += sum.Total
			stats.ByCategory[sum.Category] += sum.Total
		}
	}
	stats.Balance = stats.Income - stats.Expense

	budgets, err := s.ListBudgets(ctx, month)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		spent := stats.ByCategory[b.Category]
		stats.Budgets = append(stats.Budgets, BudgetUsage{
			BudgetID:  b.ID,
			Category:  b.Category,
			Budget:    b.Amount,
			Spent:     spent,
			Remaining: b.Amount - spent,
			Percent:   spent / b.Amount * 100,
			Exceeded:  spent > b.Amount,
		})
	}

	return stats, nil
}

// TotalBalance is all income minus all expenses
func (s *Store) TotalBalance(ctx context.Context) (float64, error) {
	var balance float64
	err := s.db.WithContext(ctx).Model(&Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", TypeIncome).
		Scan(&balance).Error
	if err != nil {
		return 0, readErr(err, "balance", "")
	}
	return balance, nil
}
