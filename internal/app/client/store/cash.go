package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"possync/internal/domain/retail"
)

// OpenCashSession открывает смену. Одновременно открыта только одна.
func (s *Store) OpenCashSession(staffName string, openingFloat decimal.Decimal) (retail.CashSession, error) {
	if openingFloat.IsNegative() {
		return retail.CashSession{}, fmt.Errorf("%w: opening float must be non-negative", retail.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activeSessionLocked(); ok {
		return retail.CashSession{}, retail.ErrSessionOpen
	}

	session := retail.CashSession{
		ID:           s.newID(),
		StaffName:    strings.TrimSpace(staffName),
		OpeningFloat: openingFloat,
		OpenedAt:     s.timestamp(),
	}
	s.state.CashSessions = append([]retail.CashSession{session}, s.state.CashSessions...)

	if err := s.commit(); err != nil {
		return retail.CashSession{}, err
	}
	return session, nil
}

// CloseCashSession закрывает смену и фиксирует ожидаемую наличность:
// размен плюс наличные продажи за вычетом наличных расходов за смену.
func (s *Store) CloseCashSession(closingCash decimal.Decimal) (retail.CashSession, error) {
	if closingCash.IsNegative() {
		return retail.CashSession{}, fmt.Errorf("%w: closing cash must be non-negative", retail.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.activeSessionLocked()
	if !ok {
		return retail.CashSession{}, retail.ErrNoOpenSession
	}
	session := &s.state.CashSessions[idx]

	closedAt := s.timestamp()
	expected := s.expectedCashLocked(session.OpeningFloat, session.OpenedAt, closedAt)
	session.ClosedAt = &closedAt
	session.ClosingCash = &closingCash
	session.ExpectedCash = &expected

	result := *session
	if err := s.commit(); err != nil {
		return retail.CashSession{}, err
	}
	return result, nil
}

// ActiveCashSession текущая открытая смена
func (s *Store) ActiveCashSession() (retail.CashSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.activeSessionLocked()
	if !ok {
		return retail.CashSession{}, false
	}
	return s.state.CashSessions[idx], true
}

// CashSessions история смен, от новых к старым
func (s *Store) CashSessions() []retail.CashSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.state.CashSessions)
}

func (s *Store) activeSessionLocked() (int, bool) {
	for i, session := range s.state.CashSessions {
		if session.IsOpen() {
			return i, true
		}
	}
	return -1, false
}

func (s *Store) expectedCashLocked(float decimal.Decimal, from, to time.Time) decimal.Decimal {
	expected := float
	for _, sale := range s.state.Sales {
		if sale.PaymentMethod != retail.PaymentCash || sale.CreatedAt.Before(from) || sale.CreatedAt.After(to) {
			continue
		}
		expected = expected.Add(sale.Total)
	}
	for _, e := range s.state.Expenses {
		if e.PaymentMethod != retail.PaymentCash || e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			continue
		}
		expected = expected.Sub(e.Amount)
	}
	return expected
}
