package entity

import (
	"time"
)

// ShapeShifterScore представляет запись счёта игры ShapeShifter.
// Это отдельный, намеренно более простой путь: запись хранит имя игрока
// строкой и НЕ связана с агрегатом пользователя. Отправка счёта ShapeShifter
// не изменяет статистику ни одного пользователя.
type ShapeShifterScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;index" json:"username"`
	Level     int       `gorm:"not null;default:0" json:"level"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	Streak    int       `gorm:"not null;default:0" json:"streak"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ShapeShifterScore) TableName() string {
	return "shape_shifter_scores"
}
