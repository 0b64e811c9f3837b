package helper

import (
	"github.com/yourusername/games-api/internal/domain/entity"
	"github.com/yourusername/games-api/internal/handler/dto"
)

// UserToDTO преобразует пользователя в публичное представление
func UserToDTO(user *entity.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Level:     user.Level,
		CreatedAt: user.CreatedAt,
	}
}

// UserToStatsDTO снимает агрегированную статистику пользователя
func UserToStatsDTO(user *entity.User) *dto.UserStatsDTO {
	return &dto.UserStatsDTO{
		Level:               user.Level,
		TotalScore:          user.TotalScore,
		GamesPlayed:         user.GamesPlayed,
		HighestScore:        user.HighestScore,
		AverageScore:        user.AverageScore,
		Accuracy:            user.Accuracy,
		TotalCorrectAnswers: user.TotalCorrectAnswers,
		TotalTimePlayed:     user.TotalTimePlayed,
		AverageTimePerGame:  user.AverageTimePerGame,
		LastPlayed:          user.LastPlayed,
	}
}

// UsersToRankedDTOs преобразует страницу рейтинга в DTO с порядковыми местами.
// offset — смещение страницы, места сквозные по всему рейтингу.
func UsersToRankedDTOs(users []entity.User, offset int) []*dto.RankedPlayerDTO {
	ranked := make([]*dto.RankedPlayerDTO, len(users))
	for i := range users {
		u := &users[i]
		ranked[i] = &dto.RankedPlayerDTO{
			Rank:         offset + i + 1,
			UserID:       u.ID,
			Username:     u.Username,
			Level:        u.Level,
			TotalScore:   u.TotalScore,
			GamesPlayed:  u.GamesPlayed,
			HighestScore: u.HighestScore,
			AverageScore: u.AverageScore,
		}
	}
	return ranked
}
