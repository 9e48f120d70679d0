package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, shop Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (Shop, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Shop), args.Error(1)
}

func newService(repo Repository) *Service {
	return NewService(repo, NewSecretValidator(), slog.Default())
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(s Shop) bool {
		return s.ID == "shop-lekki" && s.Name == "Lekki Mart" &&
			bcrypt.CompareHashAndPassword([]byte(s.SecretHash), []byte("openSesame1")) == nil
	})).Return(nil)

	shop, err := service.Register(context.Background(), " shop-lekki ", "Lekki Mart ", "openSesame1")
	require.NoError(t, err)
	assert.Equal(t, "shop-lekki", shop.ID)
	assert.False(t, shop.CreatedAt.IsZero())

	mockRepo.AssertExpectations(t)
}

func TestService_Register_InvalidInput(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newService(mockRepo)

	_, err := service.Register(context.Background(), "ab", "Tiny", "openSesame1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Register(context.Background(), "shop-1", "Weak", "password")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("shop.Shop")).Return(ErrExists)

	_, err := service.Register(context.Background(), "shop-1", "Dup", "openSesame1")
	assert.ErrorIs(t, err, ErrExists)

	mockRepo.AssertExpectations(t)
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("openSesame1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := Shop{ID: "shop-1", Name: "Corner", SecretHash: string(hash)}

	tests := []struct {
		name    string
		id      string
		secret  string
		repoRet Shop
		repoErr error
		wantErr error
	}{
		{name: "success", id: "shop-1", secret: "openSesame1", repoRet: stored},
		{name: "wrong secret", id: "shop-1", secret: "openSesame2", repoRet: stored, wantErr: ErrInvalidAuth},
		{name: "unknown shop", id: "shop-9", secret: "openSesame1", repoErr: ErrNotFound, wantErr: ErrInvalidAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newService(mockRepo)
			mockRepo.On("FindByID", mock.Anything, tt.id).Return(tt.repoRet, tt.repoErr)

			shop, err := service.Authenticate(context.Background(), tt.id, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Corner", shop.Name)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Authenticate_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newService(mockRepo)

	mockRepo.On("FindByID", mock.Anything, "shop-1").Return(Shop{}, errors.New("connection reset"))

	_, err := service.Authenticate(context.Background(), "shop-1", "openSesame1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAuth)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSecretValidator(t *testing.T) {
	v := NewSecretValidator()

	tests := []struct {
		name    string
		id      string
		secret  string
		wantErr bool
	}{
		{name: "valid", id: "shop.lekki_01", secret: "openSesame1"},
		{name: "short id", id: "ab", secret: "openSesame1", wantErr: true},
		{name: "id with slash", id: "shop/1", secret: "openSesame1", wantErr: true},
		{name: "short secret", id: "shop-1", secret: "ab1", wantErr: true},
		{name: "no digit", id: "shop-1", secret: "openSesame", wantErr: true},
		{name: "no letter", id: "shop-1", secret: "12345678", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRegister(tt.id, tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
