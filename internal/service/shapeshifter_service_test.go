package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/games-api/internal/domain/entity"
	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
)

type MockShapeShifterRepo struct {
	mock.Mock
}

func (m *MockShapeShifterRepo) Save(score *entity.ShapeShifterScore) error {
	args := m.Called(score)
	return args.Error(0)
}

func (m *MockShapeShifterRepo) GetAll() ([]entity.ShapeShifterScore, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ShapeShifterScore), args.Error(1)
}

func (m *MockShapeShifterRepo) GetTop(n int) ([]entity.ShapeShifterScore, error) {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ShapeShifterScore), args.Error(1)
}

func (m *MockShapeShifterRepo) GetByUsername(username string) ([]entity.ShapeShifterScore, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ShapeShifterScore), args.Error(1)
}

func (m *MockShapeShifterRepo) Delete(id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func TestShapeShifterService_Submit_DoesNotTouchUsers(t *testing.T) {
	// Arrange: сервису не передаются репозитории пользователей вообще —
	// отправка счёта ShapeShifter не может изменить ничей агрегат
	repo := new(MockShapeShifterRepo)
	svc := NewShapeShifterService(repo, nil)

	repo.On("Save", mock.MatchedBy(func(s *entity.ShapeShifterScore) bool {
		return s.Username == "shifter" && s.Score == 300 && s.Streak == 7
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.ShapeShifterScore).ID = 1
	}).Return(nil).Once()

	// Act
	record, err := svc.Submit("shifter", 4, 300, 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), record.ID)
	repo.AssertExpectations(t)
}

func TestShapeShifterService_Submit_Validation(t *testing.T) {
	svc := NewShapeShifterService(new(MockShapeShifterRepo), nil)

	cases := []struct {
		name     string
		username string
		level    int
		score    int
		streak   int
	}{
		{"пустое имя", "   ", 1, 10, 0},
		{"отрицательный счёт", "p", 1, -10, 0},
		{"отрицательный уровень", "p", -1, 10, 0},
		{"отрицательная серия", "p", 1, 10, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(tc.username, tc.level, tc.score, tc.streak)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestShapeShifterService_Submit_NotifiesSubscribers(t *testing.T) {
	repo := new(MockShapeShifterRepo)
	notifier := &recordingNotifier{}
	svc := NewShapeShifterService(repo, notifier)

	repo.On("Save", mock.Anything).Return(nil).Once()

	_, err := svc.Submit("shifter", 1, 50, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"shapeshifter"}, notifier.events)
}

func TestShapeShifterService_Delete_ReportsExistence(t *testing.T) {
	repo := new(MockShapeShifterRepo)
	svc := NewShapeShifterService(repo, nil)

	repo.On("Delete", uint(5)).Return(true, nil).Once()
	repo.On("Delete", uint(5)).Return(false, nil).Once()

	existed, err := svc.Delete(5)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.Delete(5)
	require.NoError(t, err)
	assert.False(t, existed, "Повторное удаление сообщает об отсутствии записи")
}
