package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/games-api/internal/domain/entity"
	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
	"github.com/yourusername/games-api/pkg/auth"
)

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService("test-secret-key", 1)
	require.NoError(t, err)
	return svc
}

func TestUserService_Register_Success(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, newTestJWTService(t))

	userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	userRepo.On("GetByUsername", "newplayer").Return(nil, apperrors.ErrNotFound).Once()
	userRepo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "newplayer" && u.Email == "new@example.com" && u.Level == 1 &&
			u.TotalScore == 0 && u.GamesPlayed == 0
	})).Return(nil).Once()

	// Act: email нормализуется при регистрации
	user, err := svc.Register("newplayer", " New@Example.COM ", "secret123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	userRepo.AssertExpectations(t)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, newTestJWTService(t))

	userRepo.On("GetByEmail", "taken@example.com").Return(freshUser(1), nil).Once()

	_, err := svc.Register("someone", "taken@example.com", "secret123")

	assert.ErrorIs(t, err, apperrors.ErrConflict, "Повторная регистрация email отклоняется")
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUserService_Register_ShortPassword(t *testing.T) {
	svc := NewUserService(new(MockUserRepo), newTestJWTService(t))

	_, err := svc.Register("player", "p@example.com", "123")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUserService_Login_Success(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepo)
	jwtService := newTestJWTService(t)
	svc := NewUserService(userRepo, jwtService)

	user := freshUser(9)
	user.Password = "correct-password"
	// BeforeSave в боевом коде хеширует пароль; здесь имитируем сохранённый хеш
	require.NoError(t, user.BeforeSave(nil))
	userRepo.On("GetByEmail", "player@example.com").Return(user, nil).Once()

	// Act
	token, got, err := svc.Login("player@example.com", "correct-password")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(9), got.ID)
	claims, err := jwtService.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID, "Токен несёт идентичность пользователя")
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, newTestJWTService(t))

	user := freshUser(9)
	user.Password = "correct-password"
	require.NoError(t, user.BeforeSave(nil))
	userRepo.On("GetByEmail", "player@example.com").Return(user, nil).Once()

	_, _, err := svc.Login("player@example.com", "wrong-password")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, newTestJWTService(t))

	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := svc.Login("ghost@example.com", "whatever")

	// Неизвестный email неотличим от неверного пароля
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserService_UpdateProfile_RejectsTakenUsername(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, newTestJWTService(t))

	other := freshUser(2)
	other.Username = "occupied"
	userRepo.On("GetByUsername", "occupied").Return(other, nil).Once()

	_, err := svc.UpdateProfile(1, "occupied")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
}

func TestUserService_UpdateProfile_Success(t *testing.T) {
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, newTestJWTService(t))

	userRepo.On("GetByUsername", "renamed").Return(nil, apperrors.ErrNotFound).Once()
	userRepo.On("UpdateProfile", uint(1), map[string]interface{}{"username": "renamed"}).Return(nil).Once()
	updated := freshUser(1)
	updated.Username = "renamed"
	userRepo.On("GetByID", uint(1)).Return(updated, nil).Once()

	user, err := svc.UpdateProfile(1, "renamed")

	require.NoError(t, err)
	assert.Equal(t, "renamed", user.Username)
	userRepo.AssertExpectations(t)
}

func TestUserService_GetGameStats_RefetchesAggregate(t *testing.T) {
	// Arrange: статистика читается из БД при каждом обращении
	userRepo := new(MockUserRepo)
	svc := NewUserService(userRepo, newTestJWTService(t))

	stats := freshUser(5)
	stats.GamesPlayed = 3
	stats.TotalScore = 450
	stats.AverageScore = 150
	userRepo.On("GetByID", uint(5)).Return(stats, nil).Once()

	// Act
	user, err := svc.GetGameStats(5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.GamesPlayed)
	assert.Equal(t, float64(150), user.AverageScore)
	userRepo.AssertExpectations(t)
}
