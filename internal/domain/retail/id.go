package retail

import "github.com/google/uuid"

// NewID генерирует глобально уникальный идентификатор сущности на клиенте
func NewID() string {
	return uuid.NewString()
}
