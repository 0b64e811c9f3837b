package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/games-api/internal/domain/entity"
)

// ShapeShifterScoreRepo реализует repository.ShapeShifterRepository
type ShapeShifterScoreRepo struct {
	db *gorm.DB
}

// NewShapeShifterScoreRepo создает новый репозиторий счетов ShapeShifter
func NewShapeShifterScoreRepo(db *gorm.DB) *ShapeShifterScoreRepo {
	return &ShapeShifterScoreRepo{db: db}
}

// Save сохраняет запись счёта
func (r *ShapeShifterScoreRepo) Save(score *entity.ShapeShifterScore) error {
	return r.db.Create(score).Error
}

// GetAll возвращает все записи счетов
func (r *ShapeShifterScoreRepo) GetAll() ([]entity.ShapeShifterScore, error) {
	var scores []entity.ShapeShifterScore
	err := r.db.Order("id ASC").Find(&scores).Error
	return scores, err
}

// GetTop возвращает n лучших записей по счёту
func (r *ShapeShifterScoreRepo) GetTop(n int) ([]entity.ShapeShifterScore, error) {
	var scores []entity.ShapeShifterScore
	err := r.db.Order("score DESC, streak DESC, id ASC").Limit(n).Find(&scores).Error
	return scores, err
}

// GetByUsername возвращает записи игрока от новых к старым
func (r *ShapeShifterScoreRepo) GetByUsername(username string) ([]entity.ShapeShifterScore, error) {
	var scores []entity.ShapeShifterScore
	err := r.db.Where("username = ?", username).
		Order("created_at DESC, id DESC").
		Find(&scores).Error
	return scores, err
}

// Delete удаляет запись по id и сообщает, существовала ли она
func (r *ShapeShifterScoreRepo) Delete(id uint) (bool, error) {
	res := r.db.Delete(&entity.ShapeShifterScore{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
