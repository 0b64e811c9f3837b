package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/games-api/internal/handler/dto"
	"github.com/yourusername/games-api/internal/handler/helper"
	"github.com/yourusername/games-api/internal/middleware"
	"github.com/yourusername/games-api/internal/service"
)

// UserHandler обрабатывает запросы, связанные с пользователями
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register обрабатывает регистрацию нового пользователя
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return
	}

	user, err := h.userService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, "UserHandler", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "user": helper.UserToDTO(user)})
}

// Login обрабатывает вход и выдает токен сессии
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return
	}

	token, user, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, "UserHandler", err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  helper.UserToDTO(user),
	})
}

// GetProfile возвращает профиль текущего пользователя
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		respondServiceError(c, "UserHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   helper.UserToDTO(user),
		"stats":  helper.UserToStatsDTO(user),
	})
}

// GetProfileByEmail возвращает профиль и статистику по email-адресу
func (h *UserHandler) GetProfileByEmail(c *gin.Context) {
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return
	}

	user, err := h.userService.GetProfileByEmail(req.Email)
	if err != nil {
		respondServiceError(c, "UserHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   helper.UserToDTO(user),
		"stats":  helper.UserToStatsDTO(user),
	})
}

// UpdateProfile изменяет профиль текущего пользователя
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Unauthorized"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request body"})
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Username)
	if err != nil {
		respondServiceError(c, "UserHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "user": helper.UserToDTO(user)})
}

// GetRanking возвращает страницу глобального рейтинга игроков
func (h *UserHandler) GetRanking(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 {
		perPage = 20
	} else if perPage > 100 {
		perPage = 100
	}

	offset := (page - 1) * perPage
	users, total, err := h.userService.GetRankedPlayers(perPage, offset)
	if err != nil {
		respondServiceError(c, "UserHandler", err)
		return
	}

	c.JSON(http.StatusOK, dto.PaginatedRankingResponse{
		Players: helper.UsersToRankedDTOs(users, offset),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}
