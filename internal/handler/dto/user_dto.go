package dto

import "time"

// RegisterRequest — тело запроса регистрации
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest — тело запроса входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest — тело запроса изменения профиля
type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required"`
}

// ProfileRequest — запрос профиля по email
type ProfileRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UserDTO — публичное представление пользователя
type UserDTO struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse — ответ на успешный вход
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// RankedPlayerDTO представляет одного игрока в глобальном рейтинге
type RankedPlayerDTO struct {
	Rank         int     `json:"rank"`
	UserID       uint    `json:"user_id"`
	Username     string  `json:"username"`
	Level        int     `json:"level"`
	TotalScore   int64   `json:"total_score"`
	GamesPlayed  int64   `json:"games_played"`
	HighestScore int64   `json:"highest_score"`
	AverageScore float64 `json:"average_score"`
}

// PaginatedRankingResponse представляет пагинированный ответ глобального рейтинга
type PaginatedRankingResponse struct {
	Players []*RankedPlayerDTO `json:"players"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

// ContactRequest — тело запроса формы обратной связи
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}
