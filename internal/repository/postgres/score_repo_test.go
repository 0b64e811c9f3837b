package postgres

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/games-api/internal/domain/entity"
	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
)

// setupTestDB поднимает in-memory SQLite с той же схемой, что и миграции.
// Для репозиторных тестов этого достаточно: SQL здесь переносимый.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Не удалось открыть in-memory SQLite")

	require.NoError(t, db.AutoMigrate(&entity.User{}))
	require.NoError(t, db.Table("emoji_scores").AutoMigrate(&entity.GameScore{}))
	require.NoError(t, db.Table("mindloop_scores").AutoMigrate(&entity.GameScore{}))
	require.NoError(t, db.AutoMigrate(&entity.ShapeShifterScore{}))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username: username,
		Email:    email,
		Password: "test-password",
		Level:    1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestScoreRepo_SubmitResult_CommitsStatsAndRecord(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewScoreRepo(db)
	user := createTestUser(t, db, "alice", "alice@example.com")

	now := time.Now().UTC().Truncate(time.Second)
	fromVersion := user.StatsVersion
	user.ApplyGameResult(120, 8, 45, 10, now)
	record := &entity.GameScore{
		UserID:         user.ID,
		Score:          120,
		Level:          1,
		TimeTaken:      45,
		CorrectAnswers: 8,
		TotalQuestions: 10,
		PlayedAt:       now,
	}

	// Act
	err := repo.SubmitResult(entity.GameEmoji, user, fromVersion, record)

	// Assert
	require.NoError(t, err, "Фиксация результата должна быть успешной")
	assert.NotZero(t, record.ID, "Записи реестра должен быть присвоен id")

	var stored entity.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, int64(1), stored.GamesPlayed)
	assert.Equal(t, int64(120), stored.TotalScore)
	assert.Equal(t, int64(120), stored.HighestScore)
	assert.Equal(t, uint64(1), stored.StatsVersion, "Версия агрегата должна увеличиться")

	var count int64
	require.NoError(t, db.Table("emoji_scores").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestScoreRepo_SubmitResult_VersionConflict(t *testing.T) {
	// Конфликт версий: второй коммит с той же исходной версией должен быть
	// отвергнут целиком — ни обновления агрегата, ни записи реестра.
	db := setupTestDB(t)
	repo := NewScoreRepo(db)
	user := createTestUser(t, db, "bob", "bob@example.com")

	now := time.Now().UTC()

	first := *user
	first.ApplyGameResult(100, 5, 30, 10, now)
	require.NoError(t, repo.SubmitResult(entity.GameEmoji, &first,
		0, &entity.GameScore{UserID: user.ID, Score: 100, PlayedAt: now}))

	// Конкурирующий писатель прочитал агрегат до первого коммита
	stale := *user
	stale.ApplyGameResult(50, 5, 30, 10, now)

	err := repo.SubmitResult(entity.GameEmoji, &stale,
		0, &entity.GameScore{UserID: user.ID, Score: 50, PlayedAt: now})

	require.ErrorIs(t, err, apperrors.ErrConflict)

	var stored entity.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, int64(1), stored.GamesPlayed, "Проигравший коммит не должен изменить агрегат")
	assert.Equal(t, int64(100), stored.TotalScore)

	var count int64
	require.NoError(t, db.Table("emoji_scores").Count(&count).Error)
	assert.Equal(t, int64(1), count, "Осиротевших записей реестра быть не должно")
}

func TestScoreRepo_SubmitResult_TablesAreIsolated(t *testing.T) {
	// Запись Mindloop не должна попадать в таблицу Emoji и наоборот.
	db := setupTestDB(t)
	repo := NewScoreRepo(db)
	user := createTestUser(t, db, "carol", "carol@example.com")

	now := time.Now().UTC()
	u := *user
	u.ApplyGameResult(70, 3, 20, 10, now)
	require.NoError(t, repo.SubmitResult(entity.GameMindloop, &u,
		0, &entity.GameScore{UserID: user.ID, Score: 70, PlayedAt: now}))

	var emojiCount, mindloopCount int64
	require.NoError(t, db.Table("emoji_scores").Count(&emojiCount).Error)
	require.NoError(t, db.Table("mindloop_scores").Count(&mindloopCount).Error)
	assert.Equal(t, int64(0), emojiCount)
	assert.Equal(t, int64(1), mindloopCount)
}

func TestScoreRepo_GetTop_TotalOrder(t *testing.T) {
	// Полный порядок лидерборда: score DESC, затем time_taken ASC,
	// затем played_at ASC.
	db := setupTestDB(t)
	repo := NewScoreRepo(db)
	user := createTestUser(t, db, "dave", "dave@example.com")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	insert := func(score, timeTaken int, playedAt time.Time) {
		rec := &entity.GameScore{
			UserID:    user.ID,
			Score:     score,
			TimeTaken: timeTaken,
			PlayedAt:  playedAt,
		}
		require.NoError(t, db.Table("emoji_scores").Create(rec).Error)
	}

	insert(100, 50, base)                   // #3: равный счёт, медленнее
	insert(100, 30, base.Add(time.Hour))    // #2: равный счёт, быстрее
	insert(200, 90, base)                   // #1: высший счёт
	insert(100, 50, base.Add(-time.Hour))   // #3 vs #4: равные score и time, раньше сыграна
	insert(50, 10, base)                    // #5

	// Act
	top, err := repo.GetTop(entity.GameEmoji, 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, top, 5)

	assert.Equal(t, 200, top[0].Score)
	assert.Equal(t, 100, top[1].Score)
	assert.Equal(t, 30, top[1].TimeTaken, "При равном счёте первой идёт более быстрая игра")
	assert.Equal(t, 100, top[2].Score)
	assert.Equal(t, 50, top[2].TimeTaken)
	assert.True(t, top[2].PlayedAt.Before(top[3].PlayedAt),
		"При равных счёте и времени первой идёт более ранняя игра")
	assert.Equal(t, 50, top[4].Score)

	assert.Equal(t, "dave", top[0].Username, "Лидерборд должен содержать имя игрока")
}

func TestScoreRepo_GetTop_LimitsToN(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepo(db)
	user := createTestUser(t, db, "erin", "erin@example.com")

	now := time.Now().UTC()
	for i := 0; i < 15; i++ {
		require.NoError(t, db.Table("emoji_scores").Create(&entity.GameScore{
			UserID:   user.ID,
			Score:    i * 10,
			PlayedAt: now,
		}).Error)
	}

	top, err := repo.GetTop(entity.GameEmoji, 10)
	require.NoError(t, err)
	assert.Len(t, top, 10)
	assert.Equal(t, 140, top[0].Score)
}

func TestScoreRepo_UserHistories(t *testing.T) {
	// Рейтинговая и хронологическая истории — разные операции с разным порядком.
	db := setupTestDB(t)
	repo := NewScoreRepo(db)
	user := createTestUser(t, db, "frank", "frank@example.com")
	other := createTestUser(t, db, "grace", "grace@example.com")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []entity.GameScore{
		{UserID: user.ID, Score: 50, Level: 1, PlayedAt: base},
		{UserID: user.ID, Score: 200, Level: 2, PlayedAt: base.Add(time.Hour)},
		{UserID: user.ID, Score: 100, Level: 1, PlayedAt: base.Add(2 * time.Hour)},
		{UserID: other.ID, Score: 999, Level: 3, PlayedAt: base},
	}
	for i := range records {
		require.NoError(t, db.Table("emoji_scores").Create(&records[i]).Error)
	}

	ranked, err := repo.GetByUser(entity.GameEmoji, user.ID)
	require.NoError(t, err)
	require.Len(t, ranked, 3, "Чужие записи не должны попадать в историю")
	assert.Equal(t, []int{200, 100, 50}, []int{ranked[0].Score, ranked[1].Score, ranked[2].Score})

	chrono, err := repo.GetByUserChronological(entity.GameEmoji, user.ID)
	require.NoError(t, err)
	require.Len(t, chrono, 3)
	assert.Equal(t, []int{50, 200, 100}, []int{chrono[0].Score, chrono[1].Score, chrono[2].Score})

	byLevel, err := repo.GetByUserAndLevel(entity.GameEmoji, user.ID, 1)
	require.NoError(t, err)
	require.Len(t, byLevel, 2)
	assert.Equal(t, 100, byLevel[0].Score)

	count, err := repo.CountByUser(entity.GameEmoji, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestScoreRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScoreRepo(db)
	user := createTestUser(t, db, "heidi", "heidi@example.com")

	rec := &entity.GameScore{UserID: user.ID, Score: 10, PlayedAt: time.Now().UTC()}
	require.NoError(t, db.Table("emoji_scores").Create(rec).Error)

	existed, err := repo.Delete(entity.GameEmoji, rec.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	// Повторное удаление — нормальный исход "не найдено", не ошибка
	existed, err = repo.Delete(entity.GameEmoji, rec.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}
