package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_ApplyGameResult_FirstGame(t *testing.T) {
	// Arrange
	user := &User{Level: 1}
	now := time.Now()

	// Act
	user.ApplyGameResult(100, 8, 60, 10, now)

	// Assert
	assert.Equal(t, int64(1), user.GamesPlayed, "Должна быть засчитана одна игра")
	assert.Equal(t, int64(100), user.TotalScore, "Совокупный счёт должен равняться счёту игры")
	assert.Equal(t, int64(100), user.HighestScore, "Высший счёт должен равняться счёту игры")
	assert.Equal(t, 100.0, user.AverageScore, "Средний счёт первой игры равен её счёту")
	assert.Equal(t, int64(8), user.TotalCorrectAnswers)
	assert.Equal(t, int64(60), user.TotalTimePlayed)
	assert.Equal(t, 60.0, user.AverageTimePerGame)
	assert.InDelta(t, 80.0, user.Accuracy, 0.0001, "Точность: 8 из 10 = 80%")
	require.NotNil(t, user.LastPlayed)
	assert.Equal(t, now, *user.LastPlayed)
}

func TestUser_ApplyGameResult_Sequence(t *testing.T) {
	// Пример из требований: 100 -> {1,100,100,avg=100};
	// 50 -> {2,150,100,avg=75}; 200 -> {3,350,200,avg≈116.7}
	user := &User{Level: 1}
	now := time.Now()

	user.ApplyGameResult(100, 5, 30, 10, now)
	assert.Equal(t, int64(1), user.GamesPlayed)
	assert.Equal(t, int64(100), user.TotalScore)
	assert.Equal(t, int64(100), user.HighestScore)
	assert.Equal(t, 100.0, user.AverageScore)

	user.ApplyGameResult(50, 5, 30, 10, now)
	assert.Equal(t, int64(2), user.GamesPlayed)
	assert.Equal(t, int64(150), user.TotalScore)
	assert.Equal(t, int64(100), user.HighestScore, "Высший счёт не должен понижаться")
	assert.Equal(t, 75.0, user.AverageScore)

	user.ApplyGameResult(200, 5, 30, 10, now)
	assert.Equal(t, int64(3), user.GamesPlayed)
	assert.Equal(t, int64(350), user.TotalScore)
	assert.Equal(t, int64(200), user.HighestScore)
	assert.InDelta(t, 350.0/3.0, user.AverageScore, 0.0001, "Средний счёт пересчитывается из сумм, а не по дельте")
}

func TestUser_ApplyGameResult_AverageIsRederived(t *testing.T) {
	// Средний счёт всегда равен TotalScore/GamesPlayed точно, без накопления
	// ошибки скользящего среднего.
	user := &User{Level: 1}
	now := time.Now()

	scores := []int{7, 13, 1, 999, 42, 0, 500}
	var sum int64
	for _, s := range scores {
		user.ApplyGameResult(s, 1, 1, 10, now)
		sum += int64(s)
	}

	assert.Equal(t, sum, user.TotalScore)
	assert.InDelta(t, float64(sum)/float64(len(scores)), user.AverageScore, 1e-9)
}

func TestUser_ApplyGameResult_LevelThresholds(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		startScore    int64
		startLevel    int
		gameScore     int
		expectedLevel int
	}{
		{"ниже первого порога уровень не меняется", 0, 1, 4999, 1},
		{"ровно 5000 даёт уровень 2", 0, 1, 5000, 2},
		{"переход порога в той же отправке", 4800, 1, 5200, 2},
		{"15000 даёт уровень 3", 14000, 2, 1000, 3},
		{"30000 даёт уровень 4", 29999, 3, 1, 4},
		{"50000 даёт уровень 5", 49000, 4, 1000, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Level: tt.startLevel, TotalScore: tt.startScore}
			user.ApplyGameResult(tt.gameScore, 0, 0, 10, now)
			assert.Equal(t, tt.expectedLevel, user.Level)
		})
	}
}

func TestUser_ApplyGameResult_LevelSkipsSteps(t *testing.T) {
	// Одна отправка, пересекающая сразу несколько порогов, даёт уровень,
	// соответствующий новому совокупному счёту, а не один шаг.
	user := &User{Level: 1}
	now := time.Now()

	user.ApplyGameResult(16000, 0, 0, 10, now)

	assert.Equal(t, 3, user.Level, "16000 очков первой игрой должны дать уровень 3")
}

func TestUser_ApplyGameResult_LevelNeverDecreases(t *testing.T) {
	user := &User{Level: 1}
	now := time.Now()

	user.ApplyGameResult(60000, 0, 0, 10, now)
	require.Equal(t, 5, user.Level)

	// Дальнейшие игры с нулевым счётом уровень не трогают
	user.ApplyGameResult(0, 0, 0, 10, now)
	user.ApplyGameResult(0, 0, 0, 10, now)
	assert.Equal(t, 5, user.Level, "Уровень никогда не понижается")
}

func TestUser_ApplyGameResult_AccuracyUsesLatestQuestionCount(t *testing.T) {
	// Известное приближение: знаменатель точности берётся из количества
	// вопросов последней отправки для всех сыгранных игр.
	user := &User{Level: 1}
	now := time.Now()

	user.ApplyGameResult(100, 10, 30, 10, now) // 10/10
	assert.InDelta(t, 100.0, user.Accuracy, 0.0001)

	user.ApplyGameResult(100, 10, 30, 20, now) // знаменатель теперь 2*20
	assert.InDelta(t, 50.0, user.Accuracy, 0.0001, "20/(2*20)*100 = 50")
}

func TestUser_ApplyGameResult_ZeroQuestionsKeepsAccuracy(t *testing.T) {
	user := &User{Level: 1}
	now := time.Now()

	user.ApplyGameResult(100, 10, 30, 10, now)
	prev := user.Accuracy

	user.ApplyGameResult(100, 0, 30, 0, now)
	assert.Equal(t, prev, user.Accuracy, "Нулевой знаменатель не должен обнулять точность")
}

func TestUser_CheckPassword(t *testing.T) {
	user := &User{Password: "secret123", Email: "a@b.c"}
	require.NoError(t, user.BeforeSave(nil))

	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.NotEqual(t, "secret123", user.Password, "Пароль должен храниться хешем")
}

func TestUser_BeforeSave_DoesNotRehash(t *testing.T) {
	user := &User{Password: "secret123", Email: "a@b.c"}
	require.NoError(t, user.BeforeSave(nil))
	hashed := user.Password

	require.NoError(t, user.BeforeSave(nil))
	assert.Equal(t, hashed, user.Password, "Повторное сохранение не должно перехешировать пароль")
}
