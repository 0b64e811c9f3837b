package service

import (
	"context"
	"log"
	"strings"

	"github.com/yourusername/games-api/internal/domain/entity"
	"github.com/yourusername/games-api/internal/domain/repository"
	apperrors "github.com/yourusername/games-api/internal/pkg/errors"
)

// ContactService сохраняет сообщения обратной связи и уведомляет оператора
type ContactService struct {
	contactRepo  repository.ContactRepository
	emailService EmailService
}

// NewContactService создает новый сервис обратной связи
func NewContactService(contactRepo repository.ContactRepository, emailService EmailService) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		emailService: emailService,
	}
}

// Submit сохраняет сообщение и отправляет email-уведомление.
// Сбой отправки письма не откатывает сохранённое сообщение.
func (s *ContactService) Submit(ctx context.Context, name, email, text string) (*entity.ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	text = strings.TrimSpace(text)
	if name == "" || email == "" || text == "" {
		return nil, apperrors.ErrValidation
	}

	message := &entity.ContactMessage{
		Name:    name,
		Email:   email,
		Message: text,
	}
	if err := s.contactRepo.Save(message); err != nil {
		return nil, err
	}

	if err := s.emailService.SendContactNotification(ctx, message); err != nil {
		log.Printf("[ContactService] Сообщение %d сохранено, но уведомление не отправлено: %v", message.ID, err)
	}
	return message, nil
}

// List возвращает страницу сообщений обратной связи
func (s *ContactService) List(limit, offset int) ([]entity.ContactMessage, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.contactRepo.List(limit, offset)
}
