package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, id, name, secret string) (Shop, error)
	Authenticate(ctx context.Context, id, secret string) (Shop, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

func (s *Service) Register(ctx context.Context, id, name, secret string) (Shop, error) {
	id = strings.TrimSpace(id)
	if err := s.validator.ValidateRegister(id, secret); err != nil {
		s.log.Debug("validation failed", "shop_id", id, "error", err)
		return Shop{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return Shop{}, fmt.Errorf("hash secret: %w", err)
	}

	shop := Shop{
		ID:         id,
		Name:       strings.TrimSpace(name),
		SecretHash: string(hash),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, shop); err != nil {
		return Shop{}, err
	}

	s.log.Info("shop registered", "shop_id", id)
	return shop, nil
}

func (s *Service) Authenticate(ctx context.Context, id, secret string) (Shop, error) {
	if err := s.validator.ValidateID(id); err != nil {
		return Shop{}, ErrInvalidAuth
	}

	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Shop{}, ErrInvalidAuth
		}
		return Shop{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(shop.SecretHash), []byte(secret)); err != nil {
		return Shop{}, ErrInvalidAuth
	}

	return shop, nil
}
