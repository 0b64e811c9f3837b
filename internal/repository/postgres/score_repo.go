package postgres

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/games-api/internal/domain/entity"
	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
)

// ScoreRepo реализует repository.ScoreRepository для игр Emoji и Mindloop.
// Обе игры хранят записи одной формы в отдельных таблицах; таблица выбирается
// по типу игры.
type ScoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo создает новый репозиторий реестра счетов
func NewScoreRepo(db *gorm.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// SubmitResult атомарно фиксирует результат игры: CAS-обновление агрегата
// пользователя по stats_version и вставка записи реестра в одной транзакции.
// При конкурентной записи того же пользователя возвращает ErrConflict,
// транзакция откатывается целиком.
func (r *ScoreRepo) SubmitResult(game entity.GameType, user *entity.User, fromVersion uint64, record *entity.GameScore) error {
	if !game.Valid() {
		return fmt.Errorf("unknown game type: %q", game)
	}

	tx := r.db.Begin()
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			log.Printf("PANIC recovered during SubmitResult transaction: %v", p)
		}
	}()
	if tx.Error != nil {
		return tx.Error
	}

	// Обновляем агрегат только если версия не изменилась с момента чтения.
	// RowsAffected == 0 означает, что конкурентная отправка успела раньше.
	res := tx.Model(&entity.User{}).
		Where("id = ? AND stats_version = ?", user.ID, fromVersion).
		Updates(map[string]interface{}{
			"level":                 user.Level,
			"total_score":           user.TotalScore,
			"games_played":          user.GamesPlayed,
			"highest_score":         user.HighestScore,
			"average_score":         user.AverageScore,
			"total_correct_answers": user.TotalCorrectAnswers,
			"total_time_played":     user.TotalTimePlayed,
			"accuracy":              user.Accuracy,
			"average_time_per_game": user.AverageTimePerGame,
			"last_played":           user.LastPlayed,
			"stats_version":         fromVersion + 1,
		})
	if res.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update user stats: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return apperrors.ErrConflict
	}

	// Вставляем запись реестра (внутри той же транзакции)
	if err := tx.Table(game.TableName()).Create(record).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert score record: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	user.StatsVersion = fromVersion + 1
	return nil
}

// GetTop возвращает n лучших записей с именами игроков.
// Порядок полный: score DESC, time_taken ASC, played_at ASC, id ASC.
func (r *ScoreRepo) GetTop(game entity.GameType, n int) ([]entity.LeaderboardEntry, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("unknown game type: %q", game)
	}

	table := game.TableName()
	var entries []entity.LeaderboardEntry
	err := r.db.Table(table).
		Select(table+".id, "+table+".score, "+table+".level, "+table+".time_taken, "+
			table+".correct_answers, "+table+".total_questions, "+table+".played_at, "+
			"users.username, users.email AS user_email").
		Joins("JOIN users ON users.id = " + table + ".user_id").
		Order(table + ".score DESC, " + table + ".time_taken ASC, " + table + ".played_at ASC, " + table + ".id ASC").
		Limit(n).
		Scan(&entries).Error
	return entries, err
}

// GetByUser возвращает записи пользователя по убыванию счёта
func (r *ScoreRepo) GetByUser(game entity.GameType, userID uint) ([]entity.GameScore, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("unknown game type: %q", game)
	}
	var scores []entity.GameScore
	err := r.db.Table(game.TableName()).
		Where("user_id = ?", userID).
		Order("score DESC, time_taken ASC, id ASC").
		Find(&scores).Error
	return scores, err
}

// GetByUserChronological возвращает записи пользователя по возрастанию played_at
func (r *ScoreRepo) GetByUserChronological(game entity.GameType, userID uint) ([]entity.GameScore, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("unknown game type: %q", game)
	}
	var scores []entity.GameScore
	err := r.db.Table(game.TableName()).
		Where("user_id = ?", userID).
		Order("played_at ASC, id ASC").
		Find(&scores).Error
	return scores, err
}

// GetByUserAndLevel возвращает записи пользователя на уровне, по убыванию счёта
func (r *ScoreRepo) GetByUserAndLevel(game entity.GameType, userID uint, level int) ([]entity.GameScore, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("unknown game type: %q", game)
	}
	var scores []entity.GameScore
	err := r.db.Table(game.TableName()).
		Where("user_id = ? AND level = ?", userID, level).
		Order("score DESC, time_taken ASC, id ASC").
		Find(&scores).Error
	return scores, err
}

// CountByUser возвращает число записей пользователя
func (r *ScoreRepo) CountByUser(game entity.GameType, userID uint) (int64, error) {
	if !game.Valid() {
		return 0, fmt.Errorf("unknown game type: %q", game)
	}
	var count int64
	err := r.db.Table(game.TableName()).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Delete удаляет запись по id и сообщает, существовала ли она.
// Агрегат пользователя намеренно не трогается: статистика может завышать
// историю после удаления (известное ограничение).
func (r *ScoreRepo) Delete(game entity.GameType, id uint) (bool, error) {
	if !game.Valid() {
		return false, fmt.Errorf("unknown game type: %q", game)
	}
	res := r.db.Table(game.TableName()).Where("id = ?", id).Delete(&entity.GameScore{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
