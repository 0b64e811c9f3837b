package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/games-api/internal/domain/entity"
	"github.com/yourusername/games-api/internal/domain/repository"
	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
)

const (
	// maxSubmitAttempts — число попыток зафиксировать результат при конфликте
	// версий агрегата. Конфликты не видны вызывающей стороне: после
	// исчерпания попыток возвращается ErrUnavailable (можно повторить запрос).
	maxSubmitAttempts = 5

	// defaultLeaderboardSize — размер лидерборда по умолчанию; кешируется
	// только он, остальные размеры читаются напрямую из БД.
	defaultLeaderboardSize = 10

	// leaderboardCacheTTL ограничивает отставание кеша лидерборда.
	leaderboardCacheTTL = 30 * time.Second
)

// LeaderboardNotifier уведомляет подписчиков о зафиксированных результатах.
// Реализуется WebSocket-хабом; рассылка не влияет на результат операции.
type LeaderboardNotifier interface {
	NotifyScoreSubmitted(game string, data interface{})
}

// SubmitInput — общий вид результата игры, который адаптеры игр передают движку
type SubmitInput struct {
	Score          int
	Level          int
	TimeTaken      int // в секундах
	CorrectAnswers int
	TotalQuestions int
}

// Validate проверяет входные значения результата игры
func (in SubmitInput) Validate() error {
	if in.Score < 0 || in.Level < 0 || in.TimeTaken < 0 ||
		in.CorrectAnswers < 0 || in.TotalQuestions < 0 {
		return apperrors.ErrValidation
	}
	return nil
}

// ScoreService — движок фиксации результатов и агрегации статистики для игр
// Emoji и Mindloop. Единственное место в системе, изменяющее статистику
// пользователя.
type ScoreService struct {
	scoreRepo repository.ScoreRepository
	userRepo  repository.UserRepository
	cacheRepo repository.CacheRepository // nil, если Redis не настроен
	notifier  LeaderboardNotifier        // nil, если WebSocket отключён
}

// NewScoreService создает новый движок результатов
func NewScoreService(
	scoreRepo repository.ScoreRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	notifier LeaderboardNotifier,
) *ScoreService {
	return &ScoreService{
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		notifier:  notifier,
	}
}

// Submit фиксирует результат игры для пользователя: обновляет агрегат по
// инкрементальной формуле и вставляет запись реестра одной атомарной
// операцией. Возвращает вставленную запись и снимок обновлённого агрегата.
//
// Конкурентные отправки одного пользователя сериализуются оптимистической
// блокировкой: при конфликте версий агрегат перечитывается и формула
// применяется заново, так что итог N конкурентных отправок равен некоторому
// последовательному порядку их применения — ни одна не теряется.
func (s *ScoreService) Submit(game entity.GameType, userID uint, in SubmitInput) (*entity.GameScore, *entity.User, error) {
	if !game.Valid() {
		return nil, nil, apperrors.ErrValidation
	}
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		// Перечитываем агрегат на каждой попытке: после конфликта прежнее
		// прочитанное состояние устарело
		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			return nil, nil, err
		}

		fromVersion := user.StatsVersion
		now := time.Now()
		user.ApplyGameResult(in.Score, in.CorrectAnswers, in.TimeTaken, in.TotalQuestions, now)

		// Запись реестра несёт сырые значения отправки, не пересчитанный агрегат
		record := &entity.GameScore{
			UserID:         user.ID,
			Score:          in.Score,
			Level:          in.Level,
			TimeTaken:      in.TimeTaken,
			CorrectAnswers: in.CorrectAnswers,
			TotalQuestions: in.TotalQuestions,
			PlayedAt:       now,
		}

		err = s.scoreRepo.SubmitResult(game, user, fromVersion, record)
		if err == nil {
			s.invalidateLeaderboard(game)
			if s.notifier != nil {
				s.notifier.NotifyScoreSubmitted(string(game), record)
			}
			return record, user, nil
		}
		if errors.Is(err, apperrors.ErrConflict) {
			log.Printf("[ScoreService] Конфликт версий агрегата пользователя %d (игра %s), попытка %d/%d",
				userID, game, attempt, maxSubmitAttempts)
			continue
		}
		return nil, nil, err
	}

	log.Printf("[ScoreService] Исчерпаны попытки фиксации результата пользователя %d (игра %s)", userID, game)
	return nil, nil, apperrors.ErrUnavailable
}

// SubmitByEmail — альтернативная точка входа движка: пользователь задаётся
// email-адресом. Email нормализуется; если пользователя нет, создаётся новый
// с обнулённой статистикой (имя — локальная часть адреса). После разрешения
// идентичности путь полностью совпадает с Submit.
func (s *ScoreService) SubmitByEmail(game entity.GameType, email string, in SubmitInput) (*entity.GameScore, *entity.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil, apperrors.ErrValidation
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if errors.Is(err, apperrors.ErrNotFound) {
		user, err = s.provisionUser(normalized)
	}
	if err != nil {
		return nil, nil, err
	}

	return s.Submit(game, user.ID, in)
}

// provisionUser создает пользователя с обнулённой статистикой для email-входа
func (s *ScoreService) provisionUser(email string) (*entity.User, error) {
	username := strings.SplitN(email, "@", 2)[0]
	if username == "" {
		return nil, apperrors.ErrValidation
	}

	// Локальная часть адреса может быть занята другим игроком
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		username = fmt.Sprintf("%s-%s", username, uuid.NewString()[:8])
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: uuid.NewString(), // вход по паролю для таких аккаунтов не предполагается
		Level:    1,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	log.Printf("[ScoreService] Создан пользователь %s (id=%d) для отправки по email", username, user.ID)
	return user, nil
}

// GetLeaderboard возвращает n лучших записей игры. Размер по умолчанию
// кешируется с коротким TTL: чтение может отставать от конкурентной записи,
// но никогда не видит частично обновлённое состояние.
func (s *ScoreService) GetLeaderboard(game entity.GameType, n int) ([]entity.LeaderboardEntry, error) {
	if n < 1 {
		n = defaultLeaderboardSize
	}

	key := leaderboardCacheKey(game, n)
	if s.cacheRepo != nil && n == defaultLeaderboardSize {
		var cached []entity.LeaderboardEntry
		if err := s.cacheRepo.GetJSON(key, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := s.scoreRepo.GetTop(game, n)
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil && n == defaultLeaderboardSize {
		if err := s.cacheRepo.SetJSON(key, entries, leaderboardCacheTTL); err != nil {
			log.Printf("[ScoreService] Не удалось закешировать лидерборд %s: %v", game, err)
		}
	}
	return entries, nil
}

// GetUserScores возвращает рейтинговую историю пользователя (по убыванию счёта)
func (s *ScoreService) GetUserScores(game entity.GameType, userID uint) ([]entity.GameScore, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.scoreRepo.GetByUser(game, userID)
}

// GetUserScoresChronological возвращает хронологическую историю пользователя
func (s *ScoreService) GetUserScoresChronological(game entity.GameType, userID uint) ([]entity.GameScore, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.scoreRepo.GetByUserChronological(game, userID)
}

// GetUserScoresByLevel возвращает записи пользователя на заданном уровне
func (s *ScoreService) GetUserScoresByLevel(game entity.GameType, userID uint, level int) ([]entity.GameScore, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.scoreRepo.GetByUserAndLevel(game, userID, level)
}

// GetUserScoresByEmail возвращает рейтинговую историю по email-адресу
func (s *ScoreService) GetUserScoresByEmail(game entity.GameType, email string) ([]entity.GameScore, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, apperrors.ErrValidation
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	return s.scoreRepo.GetByUser(game, user.ID)
}

// GameSummary — сводка по записям пользователя в реестре одной игры.
// Считается из реестра, а не из агрегата: агрегат общий для всех игр,
// сводка — только по этой.
type GameSummary struct {
	GamesPlayed  int64   `json:"games_played"`
	HighScore    int     `json:"high_score"`
	AverageScore float64 `json:"average_score"`
}

// GetUserGameSummary возвращает сводку пользователя по одной игре
func (s *ScoreService) GetUserGameSummary(game entity.GameType, userID uint) (*GameSummary, error) {
	scores, err := s.GetUserScores(game, userID)
	if err != nil {
		return nil, err
	}

	summary := &GameSummary{GamesPlayed: int64(len(scores))}
	if len(scores) > 0 {
		// Записи отсортированы по убыванию счёта
		summary.HighScore = scores[0].Score
		var total int64
		for _, sc := range scores {
			total += int64(sc.Score)
		}
		summary.AverageScore = float64(total) / float64(len(scores))
	}
	return summary, nil
}

// DeleteScore удаляет запись реестра по id и сообщает, существовала ли она.
// Агрегат пользователя намеренно не откатывается (известное ограничение).
func (s *ScoreService) DeleteScore(game entity.GameType, id uint) (bool, error) {
	existed, err := s.scoreRepo.Delete(game, id)
	if err != nil {
		return false, err
	}
	if existed {
		s.invalidateLeaderboard(game)
	}
	return existed, nil
}

func (s *ScoreService) invalidateLeaderboard(game entity.GameType) {
	if s.cacheRepo == nil {
		return
	}
	key := leaderboardCacheKey(game, defaultLeaderboardSize)
	if err := s.cacheRepo.Delete(key); err != nil {
		log.Printf("[ScoreService] Не удалось сбросить кеш лидерборда %s: %v", game, err)
	}
}

func leaderboardCacheKey(game entity.GameType, n int) string {
	return fmt.Sprintf("leaderboard:%s:top:%d", game, n)
}
