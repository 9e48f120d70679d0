package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"possync/internal/domain/retail"
)

// ExpenseInput данные расхода
type ExpenseInput struct {
	Category      string
	Description   string
	Amount        decimal.Decimal
	PaymentMethod retail.PaymentMethod
}

// AddExpense регистрирует расход. В долг расходы не проводятся.
func (s *Store) AddExpense(in ExpenseInput) (retail.Expense, error) {
	if !in.Amount.IsPositive() {
		return retail.Expense{}, fmt.Errorf("%w: expense must be positive", retail.ErrInvalidAmount)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = retail.PaymentCash
	}
	if !in.PaymentMethod.Valid() || in.PaymentMethod == retail.PaymentCredit {
		return retail.Expense{}, fmt.Errorf("%w: payment method %q", retail.ErrInvalidInput, in.PaymentMethod)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return retail.Expense{}, fmt.Errorf("%w: expense category is required", retail.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expense := retail.Expense{
		ID:            s.newID(),
		Category:      category,
		Description:   strings.TrimSpace(in.Description),
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     s.timestamp(),
	}
	s.state.Expenses = append([]retail.Expense{expense}, s.state.Expenses...)

	if err := s.commit(); err != nil {
		return retail.Expense{}, err
	}
	return expense, nil
}

// DeleteExpense удаляет расход и запоминает id, чтобы синхронизация его не вернула
func (s *Store) DeleteExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.state.Expenses, func(e retail.Expense) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("expense %s: %w", id, retail.ErrNotFound)
	}
	s.state.Expenses = slices.Delete(s.state.Expenses, i, i+1)
	s.state.DeletedExpenseIDs = append(s.state.DeletedExpenseIDs, id)

	return s.commit()
}

// Expenses снимок расходов, от новых к старым
func (s *Store) Expenses() []retail.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.Expenses)
}

// DeletedExpenseIDs id удаленных локально расходов
func (s *Store) DeletedExpenseIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.DeletedExpenseIDs)
}
