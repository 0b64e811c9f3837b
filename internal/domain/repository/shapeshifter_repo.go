package repository

import (
	"github.com/yourusername/games-api/internal/domain/entity"
)

// ShapeShifterRepository определяет методы для счетов игры ShapeShifter.
// Отдельный интерфейс: у ShapeShifter нет связи с агрегатом пользователя.
type ShapeShifterRepository interface {
	Save(score *entity.ShapeShifterScore) error
	GetAll() ([]entity.ShapeShifterScore, error)
	GetTop(n int) ([]entity.ShapeShifterScore, error)
	GetByUsername(username string) ([]entity.ShapeShifterScore, error)
	Delete(id uint) (bool, error)
}
