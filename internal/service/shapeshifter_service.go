package service

import (
	"strings"

	"github.com/yourusername/games-api/internal/domain/entity"
	"github.com/yourusername/games-api/internal/domain/repository"
	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
)

// ShapeShifterService — упрощённый путь фиксации счетов ShapeShifter.
// Не обращается к пользователям вовсе: запись несёт имя игрока строкой,
// агрегаты и уровни пользователей остаются нетронутыми.
type ShapeShifterService struct {
	repo     repository.ShapeShifterRepository
	notifier LeaderboardNotifier // nil, если WebSocket отключён
}

// NewShapeShifterService создает новый сервис ShapeShifter
func NewShapeShifterService(repo repository.ShapeShifterRepository, notifier LeaderboardNotifier) *ShapeShifterService {
	return &ShapeShifterService{repo: repo, notifier: notifier}
}

// Submit сохраняет счёт ShapeShifter
func (s *ShapeShifterService) Submit(username string, level, score, streak int) (*entity.ShapeShifterScore, error) {
	username = strings.TrimSpace(username)
	if username == "" || level < 0 || score < 0 || streak < 0 {
		return nil, apperrors.ErrValidation
	}

	record := &entity.ShapeShifterScore{
		Username: username,
		Level:    level,
		Score:    score,
		Streak:   streak,
	}
	if err := s.repo.Save(record); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyScoreSubmitted("shapeshifter", record)
	}
	return record, nil
}

// GetAll возвращает все записи счетов
func (s *ShapeShifterService) GetAll() ([]entity.ShapeShifterScore, error) {
	return s.repo.GetAll()
}

// GetLeaderboard возвращает n лучших записей (score DESC, streak DESC)
func (s *ShapeShifterService) GetLeaderboard(n int) ([]entity.ShapeShifterScore, error) {
	if n < 1 {
		n = defaultLeaderboardSize
	}
	return s.repo.GetTop(n)
}

// GetByUsername возвращает записи одного игрока, новые первыми
func (s *ShapeShifterService) GetByUsername(username string) ([]entity.ShapeShifterScore, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrValidation
	}
	return s.repo.GetByUsername(username)
}

// Delete удаляет запись по id и сообщает, существовала ли она
func (s *ShapeShifterService) Delete(id uint) (bool, error) {
	return s.repo.Delete(id)
}
