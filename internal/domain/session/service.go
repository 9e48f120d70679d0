// Package session выпускает и проверяет токены доступа магазинов.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

const DefaultTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid session")
	ErrNoSecret     = errors.New("signing secret is empty")
)

type Servicer interface {
	Create(ctx context.Context, shopID string) (Token, error)
	Validate(ctx context.Context, token string) (string, error)
}

// Token подписанный токен и время его истечения
type Token struct {
	Value     string
	ExpiresAt time.Time
}

type shopClaims struct {
	jwtlib.RegisteredClaims
	ShopID string `json:"shop_id"`
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

func NewService(secret string, ttl time.Duration, log *slog.Logger) (*Service, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}, nil
}

func (s *Service) Create(_ context.Context, shopID string) (Token, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := shopClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   shopID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		},
		ShopID: shopID,
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

func (s *Service) Validate(_ context.Context, token string) (string, error) {
	claims := &shopClaims{}
	parsed, err := jwtlib.ParseWithClaims(token, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}), jwtlib.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		s.log.Debug("token rejected", "error", err)
		return "", ErrInvalidToken
	}
	if claims.ShopID == "" {
		return "", ErrInvalidToken
	}
	return claims.ShopID, nil
}
