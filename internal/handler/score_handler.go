package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/games-api/internal/domain/entity"
	"github.com/yourusername/games-api/internal/handler/dto"
	"github.com/yourusername/games-api/internal/handler/helper"
	"github.com/yourusername/games-api/internal/middleware"
	"github.com/yourusername/games-api/internal/service"
)

// ScoreHandler обрабатывает запросы результатов одной мини-игры.
// Один и тот же обработчик регистрируется для emoji и mindloop:
// игры различаются только типом (и, значит, таблицей реестра).
type ScoreHandler struct {
	game         entity.GameType
	scoreService *service.ScoreService
	userService  *service.UserService
}

// NewScoreHandler создает обработчик результатов для указанной игры
func NewScoreHandler(game entity.GameType, scoreService *service.ScoreService, userService *service.UserService) *ScoreHandler {
	return &ScoreHandler{
		game:         game,
		scoreService: scoreService,
		userService:  userService,
	}
}

// SubmitScore фиксирует результат аутентифицированного пользователя
func (h *ScoreHandler) SubmitScore(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	var req dto.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return
	}

	record, user, err := h.scoreService.Submit(h.game, userID, service.SubmitInput{
		Score:          req.Score,
		Level:          req.Level,
		TimeTaken:      req.TimeTaken,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitScoreResponse{
		Status: "success",
		Score:  record,
		Stats:  helper.UserToStatsDTO(user),
	})
}

// SubmitScoreByEmail фиксирует результат, идентифицируя пользователя по email.
// Неизвестный email создаёт нового пользователя с обнулённой статистикой.
func (h *ScoreHandler) SubmitScoreByEmail(c *gin.Context) {
	var req dto.SubmitScoreByEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return
	}

	record, user, err := h.scoreService.SubmitByEmail(h.game, req.Email, service.SubmitInput{
		Score:          req.Score,
		Level:          req.Level,
		TimeTaken:      req.TimeTaken,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitScoreResponse{
		Status: "success",
		Score:  record,
		Stats:  helper.UserToStatsDTO(user),
	})
}

// GetLeaderboard возвращает n лучших записей игры
func (h *ScoreHandler) GetLeaderboard(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || n < 1 {
		n = 10
	} else if n > 100 {
		n = 100
	}

	entries, err := h.scoreService.GetLeaderboard(h.game, n)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "leaderboard": entries})
}

// GetMyScores возвращает рейтинговую историю текущего пользователя
func (h *ScoreHandler) GetMyScores(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	var scores []entity.GameScore
	var err error
	// Порядок истории выбирается явно: по счёту или по времени игры
	if c.DefaultQuery("order", "score") == "played_at" {
		scores, err = h.scoreService.GetUserScoresChronological(h.game, userID)
	} else {
		scores, err = h.scoreService.GetUserScores(h.game, userID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "scores": scores})
}

// GetMyScoresByLevel возвращает записи текущего пользователя на уровне
func (h *ScoreHandler) GetMyScoresByLevel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	level, err := strconv.Atoi(c.Param("level"))
	if err != nil || level < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid level"})
		return
	}

	scores, err := h.scoreService.GetUserScoresByLevel(h.game, userID, level)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "scores": scores})
}

// GetMyStats возвращает сводку текущего пользователя по ЭТОЙ игре
// (по записям её реестра, не по общему агрегату)
func (h *ScoreHandler) GetMyStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	summary, err := h.scoreService.GetUserGameSummary(h.game, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "stats": summary})
}

// GetGameStats возвращает свежий снимок общего агрегата текущего пользователя
func (h *ScoreHandler) GetGameStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	user, err := h.userService.GetGameStats(userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"username": user.Username,
		"stats":    helper.UserToStatsDTO(user),
	})
}

// GetScoresByEmail возвращает рейтинговую историю по email (для фронтенда без сессии)
func (h *ScoreHandler) GetScoresByEmail(c *gin.Context) {
	email := c.Query("email")
	scores, err := h.scoreService.GetUserScoresByEmail(h.game, email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "scores": scores})
}

// DeleteScore удаляет запись реестра по id.
// Агрегат пользователя при этом не пересчитывается.
func (h *ScoreHandler) DeleteScore(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid score id"})
		return
	}

	existed, err := h.scoreService.DeleteScore(h.game, uint(id))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !existed {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Score not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ExportLeaderboard экспортирует лидерборд в CSV или XLSX
func (h *ScoreHandler) ExportLeaderboard(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	// Для экспорта берём расширенный срез лидерборда
	entries, err := h.scoreService.GetLeaderboard(h.game, 100)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("%s_leaderboard_%s", h.game, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, entries, filename)
	default:
		h.exportCSV(c, entries, filename)
	}
}

// exportCSV экспортирует лидерборд в CSV с правильным экранированием спецсимволов
func (h *ScoreHandler) exportCSV(c *gin.Context, entries []entity.LeaderboardEntry, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Место", "Игрок", "Очки", "Уровень", "Время (сек)", "Правильных", "Всего вопросов", "Сыграно"})

	for i, e := range entries {
		writer.Write([]string{
			strconv.Itoa(i + 1),
			sanitizeForExcel(e.Username),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Level),
			strconv.Itoa(e.TimeTaken),
			strconv.Itoa(e.CorrectAnswers),
			strconv.Itoa(e.TotalQuestions),
			e.PlayedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// exportXLSX экспортирует лидерборд в Excel с использованием StreamWriter
func (h *ScoreHandler) exportXLSX(c *gin.Context, entries []entity.LeaderboardEntry, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Лидерборд"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ScoreHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Место", "Игрок", "Очки", "Уровень", "Время (сек)", "Правильных", "Всего вопросов", "Сыграно"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи заголовков: %v", err)
	}

	for i, e := range entries {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			i + 1,
			sanitizeForExcel(e.Username),
			e.Score,
			e.Level,
			e.TimeTaken,
			e.CorrectAnswers,
			e.TotalQuestions,
			e.PlayedAt.Format("2006-01-02 15:04:05"),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ScoreHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ScoreHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

func (h *ScoreHandler) respondError(c *gin.Context, err error) {
	respondServiceError(c, fmt.Sprintf("ScoreHandler:%s", h.game), err)
}
