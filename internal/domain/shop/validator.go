package shop

import (
	"fmt"
	"unicode"
)

const (
	MinIDLen     = 3
	MaxIDLen     = 64
	MinSecretLen = 8
	// bcrypt не принимает пароли длиннее 72 байт
	MaxSecretLen = 72
)

// Validator проверка регистрационных данных магазина
type Validator interface {
	ValidateRegister(id, secret string) error
	ValidateID(id string) error
	ValidateSecret(secret string) error
}

type SecretValidator struct {
	requireDigit  bool
	requireLetter bool
}

// NewSecretValidator создает валидатор с требованием букв и цифр в секрете
func NewSecretValidator() *SecretValidator {
	return &SecretValidator{
		requireDigit:  true,
		requireLetter: true,
	}
}

func (v *SecretValidator) ValidateRegister(id, secret string) error {
	if err := v.ValidateID(id); err != nil {
		return fmt.Errorf("shop id validation failed: %w", err)
	}
	if err := v.ValidateSecret(secret); err != nil {
		return fmt.Errorf("secret validation failed: %w", err)
	}
	return nil
}

// ValidateID id магазина попадает в токены и URL, поэтому набор символов ограничен
func (v *SecretValidator) ValidateID(id string) error {
	if len(id) < MinIDLen {
		return fmt.Errorf("shop id must be at least %d characters", MinIDLen)
	}
	if len(id) > MaxIDLen {
		return fmt.Errorf("shop id must be at most %d characters", MaxIDLen)
	}
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("shop id can only contain letters, digits, '_', '-', '.'")
		}
	}
	return nil
}

func (v *SecretValidator) ValidateSecret(secret string) error {
	if len(secret) < MinSecretLen {
		return fmt.Errorf("secret must be at least %d characters", MinSecretLen)
	}
	if len(secret) > MaxSecretLen {
		return fmt.Errorf("secret must be at most %d bytes", MaxSecretLen)
	}

	hasDigit := false
	hasLetter := false
	for _, r := range secret {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}

	if v.requireDigit && !hasDigit {
		return fmt.Errorf("secret must contain at least one digit")
	}
	if v.requireLetter && !hasLetter {
		return fmt.Errorf("secret must contain at least one letter")
	}
	return nil
}
