package session

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestService_CreateAndValidate(t *testing.T) {
	service, err := NewService("test-secret", time.Hour, slog.Default())
	require.NoError(t, err)

	token, err := service.Create(context.Background(), "shop-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	shopID, err := service.Validate(context.Background(), token.Value)
	require.NoError(t, err)
	assert.Equal(t, "shop-1", shopID)
}

func TestService_Validate_Rejects(t *testing.T) {
	service, err := NewService("test-secret", time.Hour, slog.Default())
	require.NoError(t, err)

	other, err := NewService("other-secret", time.Hour, slog.Default())
	require.NoError(t, err)
	foreign, err := other.Create(context.Background(), "shop-1")
	require.NoError(t, err)

	expired, err := NewService("test-secret", time.Minute, slog.Default())
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Create(context.Background(), "shop-1")
	require.NoError(t, err)

	none, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, shopClaims{ShopID: "shop-1"}).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "foreign secret", token: foreign.Value},
		{name: "expired", token: stale.Value},
		{name: "alg none", token: none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Validate(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService("", time.Hour, slog.Default())
	assert.ErrorIs(t, err, ErrNoSecret)

	service, err := NewService("s", 0, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, service.ttl)
}
