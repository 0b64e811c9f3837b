package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/games-api/internal/domain/entity"
)

// ContactRepo реализует repository.ContactRepository
type ContactRepo struct {
	db *gorm.DB
}

// NewContactRepo создает новый репозиторий сообщений обратной связи
func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// Save сохраняет сообщение
func (r *ContactRepo) Save(message *entity.ContactMessage) error {
	return r.db.Create(message).Error
}

// List возвращает сообщения от новых к старым с пагинацией
func (r *ContactRepo) List(limit, offset int) ([]entity.ContactMessage, error) {
	var messages []entity.ContactMessage
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&messages).Error
	return messages, err
}
