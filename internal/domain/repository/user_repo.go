package repository

import (
	"github.com/yourusername/games-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateProfile(userID uint, updates map[string]interface{}) error
	List(limit, offset int) ([]entity.User, error)

	// GetRanked возвращает пользователей, отсортированных по совокупному счёту
	// (глобальный рейтинг игроков), и общее количество пользователей.
	GetRanked(limit, offset int) ([]entity.User, int64, error)
}
