package dto

import (
	"time"

	"github.com/yourusername/games-api/internal/domain/entity"
)

// SubmitScoreRequest — тело запроса отправки результата игры.
// Числовые поля допускают ноль, поэтому required не используется;
// отрицательные значения отклоняет сервис.
type SubmitScoreRequest struct {
	Score          int `json:"score"`
	Level          int `json:"level"`
	TimeTaken      int `json:"time_taken"` // в секундах
	CorrectAnswers int `json:"correct_answers"`
	TotalQuestions int `json:"total_questions"`
}

// SubmitScoreByEmailRequest — отправка результата с идентификацией по email
type SubmitScoreByEmailRequest struct {
	Email          string `json:"email" binding:"required"`
	Score          int    `json:"score"`
	Level          int    `json:"level"`
	TimeTaken      int    `json:"time_taken"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
}

// UserStatsDTO — снимок агрегированной статистики пользователя на момент ответа
type UserStatsDTO struct {
	Level               int        `json:"level"`
	TotalScore          int64      `json:"total_score"`
	GamesPlayed         int64      `json:"games_played"`
	HighestScore        int64      `json:"highest_score"`
	AverageScore        float64    `json:"average_score"`
	Accuracy            float64    `json:"accuracy"`
	TotalCorrectAnswers int64      `json:"total_correct_answers"`
	TotalTimePlayed     int64      `json:"total_time_played"`
	AverageTimePerGame  float64    `json:"average_time_per_game"`
	LastPlayed          *time.Time `json:"last_played,omitempty"`
}

// SubmitScoreResponse — ответ на успешную отправку: вставленная запись
// реестра и снимок обновлённого агрегата
type SubmitScoreResponse struct {
	Status string            `json:"status"`
	Score  *entity.GameScore `json:"score"`
	Stats  *UserStatsDTO     `json:"stats"`
}

// SubmitShapeShifterRequest — тело запроса отправки счёта ShapeShifter
type SubmitShapeShifterRequest struct {
	Username string `json:"username" binding:"required"`
	Level    int    `json:"level"`
	Score    int    `json:"score"`
	Streak   int    `json:"streak"`
}
