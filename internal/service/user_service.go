package service

import (
	"errors"
	"log"
	"strings"

	"github.com/yourusername/games-api/internal/domain/entity"
	"github.com/yourusername/games-api/internal/domain/repository"
	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
	"github.com/yourusername/games-api/pkg/auth"
)

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, jwtService *auth.JWTService) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register регистрирует нового пользователя с обнулённой игровой статистикой
func (s *UserService) Register(username, email, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < 6 {
		return nil, apperrors.ErrValidation
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, apperrors.ErrConflict
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, apperrors.ErrConflict
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: password, // хешируется в BeforeSave
		Level:    1,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Printf("[UserService] Зарегистрирован пользователь %s (id=%d)", username, user.ID)
	return user, nil
}

// Login проверяет учетные данные и возвращает токен сессии
func (s *UserService) Login(email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrUnauthorized
		}
		return "", nil, err
	}

	if !user.CheckPassword(password) {
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetProfile возвращает пользователя по ID
func (s *UserService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile обновляет изменяемые поля профиля.
// Поля статистики и версии агрегата через профиль изменить нельзя.
func (s *UserService) UpdateProfile(userID uint, username string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrValidation
	}

	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing.ID != userID {
		return nil, apperrors.ErrConflict
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if err := s.userRepo.UpdateProfile(userID, map[string]interface{}{"username": username}); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}

// GetProfileByEmail возвращает пользователя по нормализованному email
func (s *UserService) GetProfileByEmail(email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.ErrValidation
	}
	return s.userRepo.GetByEmail(email)
}

// GetGameStats возвращает свежий снимок игровой статистики пользователя.
// Агрегат всегда перечитывается из БД: токен и ранние ответы не кешируют его.
func (s *UserService) GetGameStats(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// GetRankedPlayers возвращает страницу глобального рейтинга игроков
// (по совокупному счёту) и общее число пользователей.
func (s *UserService) GetRankedPlayers(limit, offset int) ([]entity.User, int64, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.GetRanked(limit, offset)
}
