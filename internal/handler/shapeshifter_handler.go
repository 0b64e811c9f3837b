package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/games-api/internal/handler/dto"
	"github.com/yourusername/games-api/internal/service"
)

// ShapeShifterHandler обрабатывает запросы счетов игры ShapeShifter.
// Эта игра не связана с пользователями и агрегатами: имя игрока
// передаётся строкой прямо в теле запроса.
type ShapeShifterHandler struct {
	shapeShifterService *service.ShapeShifterService
}

// NewShapeShifterHandler создает новый обработчик ShapeShifter
func NewShapeShifterHandler(shapeShifterService *service.ShapeShifterService) *ShapeShifterHandler {
	return &ShapeShifterHandler{shapeShifterService: shapeShifterService}
}

// SubmitScore сохраняет счёт ShapeShifter
func (h *ShapeShifterHandler) SubmitScore(c *gin.Context) {
	var req dto.SubmitShapeShifterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return
	}

	record, err := h.shapeShifterService.Submit(req.Username, req.Level, req.Score, req.Streak)
	if err != nil {
		respondServiceError(c, "ShapeShifterHandler", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "score": record})
}

// GetScores возвращает все записи счетов
func (h *ShapeShifterHandler) GetScores(c *gin.Context) {
	scores, err := h.shapeShifterService.GetAll()
	if err != nil {
		respondServiceError(c, "ShapeShifterHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "scores": scores})
}

// GetLeaderboard возвращает n лучших записей
func (h *ShapeShifterHandler) GetLeaderboard(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || n < 1 {
		n = 10
	} else if n > 100 {
		n = 100
	}

	entries, err := h.shapeShifterService.GetLeaderboard(n)
	if err != nil {
		respondServiceError(c, "ShapeShifterHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "leaderboard": entries})
}

// GetScoresByUsername возвращает записи одного игрока
func (h *ShapeShifterHandler) GetScoresByUsername(c *gin.Context) {
	scores, err := h.shapeShifterService.GetByUsername(c.Param("username"))
	if err != nil {
		respondServiceError(c, "ShapeShifterHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "scores": scores})
}

// DeleteScore удаляет запись по id
func (h *ShapeShifterHandler) DeleteScore(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid score id"})
		return
	}

	existed, err := h.shapeShifterService.Delete(uint(id))
	if err != nil {
		respondServiceError(c, "ShapeShifterHandler", err)
		return
	}
	if !existed {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Score not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
