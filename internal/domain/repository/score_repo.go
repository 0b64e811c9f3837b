package repository

import (
	"github.com/yourusername/games-api/internal/domain/entity"
)

// ScoreRepository определяет методы для работы с реестром счетов игр
// Emoji и Mindloop. Записи реестра после вставки не изменяются.
type ScoreRepository interface {
	// SubmitResult атомарно фиксирует результат игры: обновляет агрегат
	// пользователя CAS-обновлением по stats_version (ожидая fromVersion)
	// и вставляет запись реестра в одной транзакции.
	//
	// При несовпадении версии (конкурентная отправка того же пользователя)
	// возвращает apperrors.ErrConflict, не оставляя частичных эффектов:
	// ни обновлённого агрегата, ни осиротевшей записи.
	SubmitResult(game entity.GameType, user *entity.User, fromVersion uint64, record *entity.GameScore) error

	// GetTop возвращает n лучших записей с именами игроков.
	// Порядок полный и детерминированный: score DESC, time_taken ASC
	// (при равном счёте побеждает более быстрая игра), played_at ASC,
	// id ASC как финальный стабильный ключ.
	GetTop(game entity.GameType, n int) ([]entity.LeaderboardEntry, error)

	// GetByUser возвращает записи пользователя по убыванию счёта (рейтинговая история).
	GetByUser(game entity.GameType, userID uint) ([]entity.GameScore, error)

	// GetByUserChronological возвращает записи пользователя по возрастанию
	// played_at (хронологическая история). Отдельная операция, не заменяет
	// рейтинговую: вызывающая сторона выбирает нужный порядок явно.
	GetByUserChronological(game entity.GameType, userID uint) ([]entity.GameScore, error)

	// GetByUserAndLevel возвращает записи пользователя на уровне, по убыванию счёта.
	GetByUserAndLevel(game entity.GameType, userID uint, level int) ([]entity.GameScore, error)

	// CountByUser возвращает число записей пользователя.
	CountByUser(game entity.GameType, userID uint) (int64, error)

	// Delete удаляет запись по id и сообщает, существовала ли она.
	// Отсутствие записи — не ошибка. Агрегат пользователя НЕ откатывается.
	Delete(game entity.GameType, id uint) (bool, error)
}
