package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/games-api/internal/websocket"
)

// WSHandler обрабатывает WebSocket соединения для живых обновлений лидерборда
type WSHandler struct {
	hub            *websocket.Hub
	allowedOrigins []string
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(hub *websocket.Hub, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:            hub,
		allowedOrigins: allowedOrigins,
	}
}

// HandleConnection апгрейдит HTTP-соединение до WebSocket и запускает клиента
func (h *WSHandler) HandleConnection(c *gin.Context) {
	upgrader := gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// Пустой Origin — не браузерный клиент (мобильное приложение, curl)
			if origin == "" {
				return true
			}

			// Список разрешенных origin синхронизирован с CORS-конфигурацией
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}

			log.Printf("[WSHandler] Отклонён неразрешённый origin: %s", origin)
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn)
	go client.WritePump()
	go client.ReadPump()
}
