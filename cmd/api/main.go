package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/games-api/internal/config"
	"github.com/yourusername/games-api/internal/domain/entity"
	"github.com/yourusername/games-api/internal/handler"
	"github.com/yourusername/games-api/internal/middleware"
	pgRepo "github.com/yourusername/games-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/games-api/internal/repository/redis"
	"github.com/yourusername/games-api/internal/service"
	ws "github.com/yourusername/games-api/internal/websocket"
	"github.com/yourusername/games-api/pkg/auth"
	"github.com/yourusername/games-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	scoreRepo := pgRepo.NewScoreRepo(db)
	shapeShifterRepo := pgRepo.NewShapeShifterScoreRepo(db)
	contactRepo := pgRepo.NewContactRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализация WebSocket Hub для живых обновлений лидерборда
	hub := ws.NewHub()
	go hub.Run()

	// Отправитель почтовых уведомлений (no-op, если почта выключена)
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.To)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	}

	// Инициализируем сервисы
	userService := service.NewUserService(userRepo, jwtService)
	scoreService := service.NewScoreService(scoreRepo, userRepo, cacheRepo, hub)
	shapeShifterService := service.NewShapeShifterService(shapeShifterRepo, hub)
	contactService := service.NewContactService(contactRepo, emailService)

	// Инициализируем обработчики
	userHandler := handler.NewUserHandler(userService)
	emojiHandler := handler.NewScoreHandler(entity.GameEmoji, scoreService, userService)
	mindloopHandler := handler.NewScoreHandler(entity.GameMindloop, scoreService, userService)
	shapeShifterHandler := handler.NewShapeShifterHandler(shapeShifterService)
	contactHandler := handler.NewContactHandler(contactService)
	wsHandler := handler.NewWSHandler(hub, cfg.CORS.AllowedOrigins)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), userHandler.Register)
			authGroup.POST("/login", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), userHandler.Login)
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
		}

		// Профиль по email (для фронтенда без сессии)
		api.POST("/users/profile", userHandler.GetProfileByEmail)

		// Глобальный рейтинг игроков (публичный маршрут)
		api.GET("/ranking", userHandler.GetRanking)

		// Игры с агрегатом пользователя: emoji и mindloop.
		// Маршруты идентичны, различается только таблица реестра.
		registerGameRoutes(api.Group("/emoji"), emojiHandler, authMiddleware, rateLimiter)
		registerGameRoutes(api.Group("/mindloop"), mindloopHandler, authMiddleware, rateLimiter)

		// ShapeShifter: отдельный упрощённый путь без пользователей
		shapeShifter := api.Group("/shapeshifter")
		{
			shapeShifter.POST("/submit-score", rateLimiter.Limit(middleware.SubmitRateLimitConfig()), shapeShifterHandler.SubmitScore)
			shapeShifter.GET("/scores", shapeShifterHandler.GetScores)
			shapeShifter.GET("/leaderboard", shapeShifterHandler.GetLeaderboard)
			shapeShifter.GET("/scores/:username", shapeShifterHandler.GetScoresByUsername)
			shapeShifter.DELETE("/scores/:id", authMiddleware.RequireAuth(), shapeShifterHandler.DeleteScore)
		}

		// Форма обратной связи
		api.POST("/contact", contactHandler.Submit)
		api.GET("/contact", authMiddleware.RequireAuth(), contactHandler.List)

		// WebSocket для живых обновлений лидерборда
		api.GET("/ws", wsHandler.HandleConnection)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// После получения сигнала SIGINT или SIGTERM останавливаем сервер
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем WebSocket hub
	hub.Stop()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}

// registerGameRoutes регистрирует одинаковый набор маршрутов для игры с агрегатом
func registerGameRoutes(group *gin.RouterGroup, h *handler.ScoreHandler, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	submitLimit := rateLimiter.Limit(middleware.SubmitRateLimitConfig())

	group.POST("/submit-score", submitLimit, authMiddleware.RequireAuth(), h.SubmitScore)
	group.POST("/submit-score-by-email", submitLimit, h.SubmitScoreByEmail)

	group.GET("/leaderboard", h.GetLeaderboard)
	group.GET("/leaderboard/export", h.ExportLeaderboard)
	group.GET("/scores-by-email", h.GetScoresByEmail)

	authed := group.Group("")
	authed.Use(authMiddleware.RequireAuth())
	{
		authed.GET("/my-scores", h.GetMyScores)
		authed.GET("/my-scores/level/:level", h.GetMyScoresByLevel)
		authed.GET("/my-stats", h.GetMyStats)
		authed.GET("/game-stats", h.GetGameStats)
		authed.DELETE("/scores/:id", h.DeleteScore)
	}
}
