package shop

import "time"

// Shop арендатор удаленного хранилища. Все строки таблиц принадлежат одному магазину.
type Shop struct {
	ID         string
	Name       string
	SecretHash string
	CreatedAt  time.Time
}
