package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Типы событий, рассылаемых подписчикам
const (
	EventScoreSubmitted    = "score_submitted"
	EventLeaderboardUpdate = "leaderboard_update"
)

// Event представляет одно событие для рассылки клиентам
type Event struct {
	Type      string      `json:"type"`
	Game      string      `json:"game,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub управляет подключёнными клиентами и рассылает им события.
// Рассылка — это уведомление, а не источник истины: клиент, пропустивший
// событие, просто перечитает лидерборд по HTTP.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый хаб
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает основной цикл хаба. Вызывается в отдельной горутине.
func (h *Hub) Run() {
	log.Println("[WSHub] Хаб запущен")
	for {
		select {
		case <-h.ctx.Done():
			log.Println("[WSHub] Хаб останавливается")
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Медленный клиент: буфер переполнен, отключаем
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Stop останавливает хаб и отключает всех клиентов
func (h *Hub) Stop() {
	h.cancel()
}

// NotifyScoreSubmitted рассылает событие о зафиксированном результате игры.
// Реализует service.LeaderboardNotifier.
func (h *Hub) NotifyScoreSubmitted(game string, data interface{}) {
	h.publish(Event{
		Type:      EventScoreSubmitted,
		Game:      game,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// NotifyLeaderboardUpdate рассылает событие об изменении лидерборда
func (h *Hub) NotifyLeaderboardUpdate(game string, data interface{}) {
	h.publish(Event{
		Type:      EventLeaderboardUpdate,
		Game:      game,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func (h *Hub) publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WSHub] Ошибка сериализации события %s: %v", event.Type, err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// Канал рассылки переполнен: событие отбрасывается, клиенты
		// получат актуальное состояние при следующем чтении по HTTP
		log.Printf("[WSHub] Канал рассылки переполнен, событие %s отброшено", event.Type)
	}
}
