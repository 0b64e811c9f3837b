package repository

import (
	"github.com/yourusername/games-api/internal/domain/entity"
)

// ContactRepository определяет методы для сообщений обратной связи
type ContactRepository interface {
	Save(message *entity.ContactMessage) error
	List(limit, offset int) ([]entity.ContactMessage, error)
}
