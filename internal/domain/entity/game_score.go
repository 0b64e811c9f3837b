package entity

import (
	"time"
)

// GameType определяет тип мини-игры, к которому относится запись счёта.
type GameType string

const (
	GameEmoji    GameType = "emoji"
	GameMindloop GameType = "mindloop"
)

// Valid возвращает true для известных типов игр с агрегатом пользователя.
// ShapeShifter сюда намеренно не входит: у него отдельная таблица и нет агрегата.
func (g GameType) Valid() bool {
	return g == GameEmoji || g == GameMindloop
}

// TableName возвращает имя таблицы реестра счетов для типа игры.
func (g GameType) TableName() string {
	switch g {
	case GameEmoji:
		return "emoji_scores"
	case GameMindloop:
		return "mindloop_scores"
	}
	return ""
}

// GameScore представляет одну неизменяемую запись реестра счетов.
// Запись создаётся один раз при отправке результата и больше не изменяется.
// UserID — слабая ссылка на агрегат: удаление записи не откатывает статистику
// пользователя (известное ограничение).
type GameScore struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	Score          int       `gorm:"not null;default:0" json:"score"`
	Level          int       `gorm:"not null;default:0" json:"level"`
	TimeTaken      int       `gorm:"not null;default:0" json:"time_taken"` // в секундах
	CorrectAnswers int       `gorm:"not null;default:0" json:"correct_answers"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	PlayedAt       time.Time `gorm:"not null;index" json:"played_at"`
}

// LeaderboardEntry — строка лидерборда: запись счёта вместе с именем игрока.
type LeaderboardEntry struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	UserEmail      string    `json:"user_email"`
	Score          int       `json:"score"`
	Level          int       `json:"level"`
	TimeTaken      int       `json:"time_taken"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	PlayedAt       time.Time `json:"played_at"`
}
