package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/owizdom/eigen-hotcold-lotto/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler fans attested round events out to connected clients. It
// implements services.Broadcaster so the engine can publish without knowing
// about the transport.
type WebSocketHandler struct {
	log *slog.Logger
	hub *wsHub
}

type wsHub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]struct{}
	broadcast chan *Message
}

type Message struct {
	Type    string      `json:"type"`
	RoundID string      `json:"round_id,omitempty"`
	Data    interface{} `json:"data"`
}

func NewWebSocketHandler(logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}

	hub := &wsHub{
		clients:   make(map[*websocket.Conn]struct{}),
		broadcast: make(chan *Message, 100),
	}
	go hub.run()

	return &WebSocketHandler{
		log: logger,
		hub: hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.hub.add(conn)
	defer func() {
		h.hub.remove(conn)
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket read error", "error", err)
			}
			break
		}

		if msg.Type == "PING" {
			conn.WriteJSON(Message{Type: "PONG", Data: gin.H{"timestamp": time.Now().Unix()}})
		}
	}
}

func (hub *wsHub) add(conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.clients[conn] = struct{}{}
}

func (hub *wsHub) remove(conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.clients, conn)
}

func (hub *wsHub) run() {
	for msg := range hub.broadcast {
		hub.mu.Lock()
		for conn := range hub.clients {
			conn.WriteJSON(msg)
		}
		hub.mu.Unlock()
	}
}

func (h *WebSocketHandler) BroadcastRoundStarted(roundID string, commitment models.Hash32, currentBuyIn string) {
	h.hub.broadcast <- &Message{
		Type:    "ROUND_STARTED",
		RoundID: roundID,
		Data: gin.H{
			"commitment":     commitment,
			"current_buy_in": currentBuyIn,
			"timestamp":      time.Now().Unix(),
		},
	}
}

func (h *WebSocketHandler) BroadcastHint(roundID string, player models.Address, hint models.Hint) {
	h.hub.broadcast <- &Message{
		Type:    "HINT",
		RoundID: roundID,
		Data: gin.H{
			"player":           player,
			"digits_in_place":  hint.DigitsInPlace,
			"digits_correct":   hint.DigitsCorrect,
			"numeric_distance": hint.NumericDistance,
			"price_tier":       hint.PriceTier,
			"timestamp":        time.Now().Unix(),
		},
	}
}

func (h *WebSocketHandler) BroadcastPriceUpdate(roundID string, tier models.Tier, newBuyIn string) {
	h.hub.broadcast <- &Message{
		Type:    "PRICE_UPDATE",
		RoundID: roundID,
		Data: gin.H{
			"tier":       tier,
			"new_buy_in": newBuyIn,
			"timestamp":  time.Now().Unix(),
		},
	}
}

func (h *WebSocketHandler) BroadcastWinner(roundID string, winner models.Address, pool string) {
	h.hub.broadcast <- &Message{
		Type:    "WINNER",
		RoundID: roundID,
		Data: gin.H{
			"winner":    winner,
			"pool":      pool,
			"timestamp": time.Now().Unix(),
		},
	}
}
