package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Пороги совокупного счёта для автоматического повышения уровня.
// Уровень только растёт и никогда не понижается.
const (
	Level2Threshold = 5000
	Level3Threshold = 15000
	Level4Threshold = 30000
	Level5Threshold = 50000

	MaxLevel = 5
)

// User представляет пользователя и его накопительную игровую статистику.
// Строка агрегата изменяется только через ApplyGameResult + CAS-коммит
// по полю StatsVersion (см. ScoreRepository.SubmitResult).
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`

	// Игровая статистика (агрегат)
	Level               int        `gorm:"not null;default:1" json:"level"`
	TotalScore          int64      `gorm:"not null;default:0" json:"total_score"`
	GamesPlayed         int64      `gorm:"not null;default:0" json:"games_played"`
	HighestScore        int64      `gorm:"not null;default:0" json:"highest_score"`
	AverageScore        float64    `gorm:"not null;default:0" json:"average_score"`
	TotalCorrectAnswers int64      `gorm:"not null;default:0" json:"total_correct_answers"`
	TotalTimePlayed     int64      `gorm:"not null;default:0" json:"total_time_played"`
	Accuracy            float64    `gorm:"not null;default:0" json:"accuracy"`
	AverageTimePerGame  float64    `gorm:"not null;default:0" json:"average_time_per_game"`
	LastPlayed          *time.Time `json:"last_played,omitempty"`

	// StatsVersion — счётчик версий для оптимистической блокировки агрегата.
	// Инкрементируется при каждом успешном коммите результата игры.
	StatsVersion uint64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ApplyGameResult применяет результат одной игры к агрегату пользователя.
//
// Средний счёт пересчитывается заново из обновлённых TotalScore и GamesPlayed,
// а не по скользящей формуле — так ошибка округления не накапливается.
//
// Точность (accuracy) считается от количества вопросов ПОСЛЕДНЕЙ игры:
// totalQuestions текущей отправки используется как знаменатель для всех
// сыгранных игр. Это намеренное приближение; не "исправлять" без изменения
// продуктовых требований.
//
// Вызывающая сторона отвечает за сериализацию: метод изменяет только поля
// структуры в памяти, коммит в БД выполняется CAS-обновлением по StatsVersion.
func (u *User) ApplyGameResult(score, correctAnswers, timeTaken, totalQuestions int, now time.Time) {
	u.GamesPlayed++
	u.TotalScore += int64(score)
	u.TotalCorrectAnswers += int64(correctAnswers)
	u.TotalTimePlayed += int64(timeTaken)

	if int64(score) > u.HighestScore {
		u.HighestScore = int64(score)
	}

	u.AverageScore = float64(u.TotalScore) / float64(u.GamesPlayed)
	u.AverageTimePerGame = float64(u.TotalTimePlayed) / float64(u.GamesPlayed)

	if totalQuestions > 0 {
		u.Accuracy = float64(u.TotalCorrectAnswers) / float64(u.GamesPlayed*int64(totalQuestions)) * 100
	}

	u.LastPlayed = &now

	u.advanceLevel()
}

// advanceLevel повышает уровень по порогам совокупного счёта.
// Каждое правило срабатывает только если текущий уровень строго ниже целевого,
// поэтому уровень никогда не понижается.
func (u *User) advanceLevel() {
	switch {
	case u.TotalScore >= Level5Threshold && u.Level < 5:
		u.Level = 5
	case u.TotalScore >= Level4Threshold && u.Level < 4:
		u.Level = 4
	case u.TotalScore >= Level3Threshold && u.Level < 3:
		u.Level = 3
	case u.TotalScore >= Level2Threshold && u.Level < 2:
		u.Level = 2
	}
}
