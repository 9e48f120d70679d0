package store

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"possync/internal/domain/retail"
)

// CustomerInput данные клиента
type CustomerInput struct {
	ID          string
	Name        string
	Phone       string
	CreditLimit decimal.Decimal
}

// AddCustomer добавляет клиента с пустой кредитной книгой
func (s *Store) AddCustomer(in CustomerInput) (retail.Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return retail.Customer{}, fmt.Errorf("%w: customer name is required", retail.ErrInvalidInput)
	}
	if in.CreditLimit.IsNegative() {
		return retail.Customer{}, fmt.Errorf("%w: credit limit must be non-negative", retail.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := in.ID
	if id == "" {
		id = s.newID()
	}
	if s.customerIndex(id) >= 0 {
		return retail.Customer{}, fmt.Errorf("%w: customer %s already exists", retail.ErrInvalidInput, id)
	}

	now := s.timestamp()
	customer := retail.Customer{
		ID:            id,
		Name:          name,
		Phone:         strings.TrimSpace(in.Phone),
		CreditLimit:   in.CreditLimit,
		CurrentCredit: decimal.Zero,
		Transactions:  []retail.CreditTransaction{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.state.Customers = append(s.state.Customers, customer)

	if err := s.commit(); err != nil {
		return retail.Customer{}, err
	}
	return customer, nil
}

// UpdateCustomer меняет контактные данные и лимит
func (s *Store) UpdateCustomer(id string, name, phone *string, creditLimit *decimal.Decimal) (retail.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.customerIndex(id)
	if idx < 0 {
		return retail.Customer{}, fmt.Errorf("customer %s: %w", id, retail.ErrNotFound)
	}
	c := s.state.Customers[idx]

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return retail.Customer{}, fmt.Errorf("%w: customer name is required", retail.ErrInvalidInput)
		}
		c.Name = trimmed
	}
	if phone != nil {
		c.Phone = strings.TrimSpace(*phone)
	}
	if creditLimit != nil {
		if creditLimit.IsNegative() {
			return retail.Customer{}, fmt.Errorf("%w: credit limit must be non-negative", retail.ErrInvalidAmount)
		}
		c.CreditLimit = *creditLimit
	}
	c.UpdatedAt = s.bump(c.UpdatedAt)
	s.state.Customers[idx] = c

	if err := s.commit(); err != nil {
		return retail.Customer{}, err
	}
	return cloneCustomer(c), nil
}

// RecordCreditPayment погашение долга. Сумма сверх долга не принимается в книгу,
// проводится только непогашенная часть.
func (s *Store) RecordCreditPayment(customerID string, amount decimal.Decimal, note string) (retail.CreditTransaction, error) {
	if !amount.IsPositive() {
		return retail.CreditTransaction{}, fmt.Errorf("%w: payment must be positive", retail.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.customerIndex(customerID)
	if idx < 0 {
		return retail.CreditTransaction{}, fmt.Errorf("customer %s: %w", customerID, retail.ErrNotFound)
	}
	c := &s.state.Customers[idx]

	owed := retail.CreditBalance(c.Transactions)
	if !owed.IsPositive() {
		return retail.CreditTransaction{}, fmt.Errorf("%w: customer %s owes nothing", retail.ErrInvalidAmount, c.Name)
	}

	now := s.timestamp()
	tx := retail.CreditTransaction{
		ID:        s.newID(),
		Type:      retail.CreditPayment,
		Amount:    decimal.Min(amount, owed),
		Note:      note,
		CreatedAt: now,
	}
	c.Transactions = append([]retail.CreditTransaction{tx}, c.Transactions...)
	c.CurrentCredit = retail.CreditBalance(c.Transactions)
	c.UpdatedAt = s.bump(c.UpdatedAt)

	if err := s.commit(); err != nil {
		return retail.CreditTransaction{}, err
	}
	return tx, nil
}

// SetCreditFrozen запрещает или разрешает продажи в долг
func (s *Store) SetCreditFrozen(customerID string, frozen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.customerIndex(customerID)
	if idx < 0 {
		return fmt.Errorf("customer %s: %w", customerID, retail.ErrNotFound)
	}
	c := &s.state.Customers[idx]
	c.CreditFrozen = frozen
	c.UpdatedAt = s.bump(c.UpdatedAt)

	return s.commit()
}

// MarkReminderSent отмечает отправку напоминания о долге
func (s *Store) MarkReminderSent(customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.customerIndex(customerID)
	if idx < 0 {
		return fmt.Errorf("customer %s: %w", customerID, retail.ErrNotFound)
	}
	c := &s.state.Customers[idx]
	sent := s.timestamp()
	c.LastReminderSent = &sent
	c.UpdatedAt = s.bump(c.UpdatedAt)

	return s.commit()
}

// Customer возвращает клиента по id
func (s *Store) Customer(id string) (retail.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.customerIndex(id)
	if idx < 0 {
		return retail.Customer{}, fmt.Errorf("customer %s: %w", id, retail.ErrNotFound)
	}
	return cloneCustomer(s.state.Customers[idx]), nil
}

// Customers снимок списка клиентов
func (s *Store) Customers() []retail.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]retail.Customer, len(s.state.Customers))
	for i, c := range s.state.Customers {
		out[i] = cloneCustomer(c)
	}
	return out
}

// CreditBalance долг клиента, пересчитанный по книге
func (s *Store) CreditBalance(customerID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.customerIndex(customerID)
	if idx < 0 {
		return decimal.Zero, fmt.Errorf("customer %s: %w", customerID, retail.ErrNotFound)
	}
	return retail.CreditBalance(s.state.Customers[idx].Transactions), nil
}

// Debtors клиенты с непогашенным долгом
func (s *Store) Debtors() []retail.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []retail.Customer
	for _, c := range s.state.Customers {
		if c.CurrentCredit.IsPositive() {
			out = append(out, cloneCustomer(c))
		}
	}
	return out
}

func cloneCustomer(c retail.Customer) retail.Customer {
	c.Transactions = cloneSlice(c.Transactions)
	return c
}
