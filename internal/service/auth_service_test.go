package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catalog/internal/auth"
	apperrors "catalog/internal/errors"
	"catalog/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, username string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, username, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository) {
				mRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository) {
				mRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
		{
			name:     "duplicate username lost race on unique index",
			username: "alice",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository) {
				mRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService, new(MockTokenStore))

			user, err := svc.Register(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.username, user.Username)
				// Hash is server-side and verifiable, never the raw password.
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterBlankUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))

	for _, username := range []string{"", "   ", "\t\n"} {
		user, err := svc.Register(context.Background(), username, "p1")

		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Field)
		assert.Nil(t, user)
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterTrimsUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice"
	})).Return(nil)

	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))

	user, err := svc.Register(context.Background(), "  alice  ", "p1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			username: "alice",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:           7,
					Username:     "alice",
					PasswordHash: string(hashed),
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "alice", mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown username",
			username: "nobody",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "nope",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{
					ID:           7,
					Username:     "alice",
					PasswordHash: string(hashed),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService, mockTokenStore)

			access, refresh, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, access)
				assert.Empty(t, refresh)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, access)
				assert.NotEmpty(t, refresh)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(7, "alice")
	assert.NoError(t, err)

	t.Run("whitelisted refresh token yields new access token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(7), "alice", nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)

		access, err := svc.Refresh(context.Background(), refreshToken)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)

		claims, err := jwtService.ValidateToken(access)
		assert.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)
	})

	t.Run("revoked refresh token is rejected", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), "", assert.AnError)

		svc := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)

		_, err := svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("access token cannot be used as refresh token", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(7, "alice")
		assert.NoError(t, err)

		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))

		_, err = svc.Refresh(context.Background(), accessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestAuthService_Resolve(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("live user resolves", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(&model.User{ID: 7, Username: "alice"}, nil)

		svc := NewAuthService(mockRepo, jwtService, new(MockTokenStore))

		user, err := svc.Resolve(context.Background(), &auth.Claims{
			UserID: 7, Username: "alice", TokenType: auth.TokenTypeAccess,
		})
		assert.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
	})

	t.Run("token for deleted user is an authentication failure", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(mockRepo, jwtService, new(MockTokenStore))

		_, err := svc.Resolve(context.Background(), &auth.Claims{
			UserID: 7, Username: "alice", TokenType: auth.TokenTypeAccess,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("refresh claims are rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))

		_, err := svc.Resolve(context.Background(), &auth.Claims{
			UserID: 7, Username: "alice", TokenType: auth.TokenTypeRefresh,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}
