package store

import (
	"context"
	"strings"
)

func validateTransaction(t *Transaction) error {
	switch {
	case t.Type != TypeExpense && t.Type != TypeIncome:
		return badRequest("type must be expense or income")
	case t.Amount <= 0:
		return badRequest("amount must be positive")
	case strings.TrimSpace(t.Description) == "":
		return badRequest("description is required")
	case !validDate(t.Date):
		return badRequest("date must be YYYY-MM-DD")
	}
	return nil
}

// AppendTransaction validates and inserts a new transaction
func (s *Store) AppendTransaction(ctx context.Context, t *Transaction) error {
	if err := validateTransaction(t); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return writeErr(err, "transaction")
	}
	return nil
}

// GetTransaction retrieves a transaction by ID
func (s *Store) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var t Transaction
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, readErr(err, "transaction", id)
	}
	return &t, nil
}

// UpdateTransaction replaces the editable fields of an existing transaction
func (s *Store) UpdateTransaction(ctx context.Context, t *Transaction) error {
	existing, err := s.GetTransaction(ctx, t.ID)
	if err != nil {
		return err
	}
	if t.Category == "" {
		t.Category = existing.Category
	}
	if err := validateTransaction(t); err != nil {
		return err
	}
	t.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return writeErr(err, "transaction")
	}
	return nil
}

// DeleteTransaction removes a transaction
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id)
	if res.Error != nil {
		return writeErr(res.Error, "transaction")
	}
	if res.RowsAffected == 0 {
		return notFound("transaction", id)
	}
	return nil
}

// ListTransactions returns matching transactions, newest first
func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter) ([]Transaction, error) {
	q := s.db.WithContext(ctx).Model(&Transaction{})
	if f.Month != "" {
		if !validMonth(f.Month) {
			return nil, badRequest("month must be YYYY-MM")
		}
		q = q.Where("date LIKE ?", f.Month+"-%")
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var txs []Transaction
	if err := q.Order("date DESC, created_at DESC").Find(&txs).Error; err != nil {
		return nil, readErr(err, "transactions", "")
	}
	return txs, nil
}
