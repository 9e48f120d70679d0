package retail

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrCustomerRequired    = errors.New("credit sale requires a customer")
	ErrCreditFrozen        = errors.New("customer credit is frozen")
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")
	ErrSessionOpen         = errors.New("cash session already open")
	ErrNoOpenSession       = errors.New("no open cash session")
)
