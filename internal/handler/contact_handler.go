package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/games-api/internal/handler/dto"
	"github.com/yourusername/games-api/internal/service"
)

// ContactHandler обрабатывает сообщения формы обратной связи
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler создает новый обработчик обратной связи
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit сохраняет сообщение и уведомляет оператора по email
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return
	}

	message, err := h.contactService.Submit(c.Request.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		respondServiceError(c, "ContactHandler", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": message})
}

// List возвращает страницу сообщений обратной связи
func (h *ContactHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	messages, err := h.contactService.List(limit, offset)
	if err != nil {
		respondServiceError(c, "ContactHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "messages": messages})
}
