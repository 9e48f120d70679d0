package tables

import "errors"

var (
	ErrEmptyBatch    = errors.New("rows must not be empty")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrMissingID     = errors.New("row without id")
	ErrMissingColumn = errors.New("row without timestamp column")
	ErrForeignShop   = errors.New("row belongs to another shop")
	ErrConflictKey   = errors.New("unsupported conflict key")
)
