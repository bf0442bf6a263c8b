package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"foodcart/services"
	"foodcart/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// CartEvent is what subscribers receive after each committed change.
type CartEvent struct {
	Type string             `json:"type"`
	Cart *services.CartView `json:"cart"`
}

type client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type broadcastMessage struct {
	userID  string
	payload []byte
}

// CartHub fans cart changes out to the websocket connections of the cart's
// owner. Only Run touches the client map.
type CartHub struct {
	clients    map[string]map[*client]struct{}
	broadcast  chan broadcastMessage
	register   chan *client
	unregister chan *client
	done       chan struct{}

	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewCartHub(allowOrigins []string, log zerolog.Logger) *CartHub {
	h := &CartHub{
		clients:    make(map[string]map[*client]struct{}),
		broadcast:  make(chan broadcastMessage, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        log,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowOrigins)}
	return h
}

func originChecker(allow []string) func(*http.Request) bool {
	if len(allow) == 0 || slices.Contains(allow, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allow, origin)
	}
}

// CartChanged never blocks the request that committed the change; if the
// hub is backed up the event is dropped.
func (h *CartHub) CartChanged(userID string, cart *services.CartView) {
	payload, err := json.Marshal(CartEvent{Type: "cart.updated", Cart: cart})
	if err != nil {
		h.log.Error().Err(err).Msg("encode cart event")
		return
	}
	select {
	case h.broadcast <- broadcastMessage{userID: userID, payload: payload}:
	case <-h.done:
	default:
		h.log.Warn().Str("user_id", userID).Msg("cart hub backed up, event dropped")
	}
}

// Run owns the client map until ctx is cancelled, then closes every
// connection.
func (h *CartHub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = map[string]map[*client]struct{}{}
			return nil

		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			for c := range h.clients[msg.userID] {
				select {
				case c.send <- msg.payload:
				default:
					h.log.Warn().Str("user_id", c.userID).Msg("slow cart subscriber dropped")
					h.drop(c)
				}
			}
		}
	}
}

func (h *CartHub) drop(c *client) {
	set := h.clients[c.userID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
}

// HandleWebSocket serves GET /api/cart/:userId/ws. The identity middleware
// has already bound the user to the request.
func (h *CartHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	cl := &client{conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- cl:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(cl)
	go h.readPump(cl)
}

// readPump only watches for the peer going away.
func (h *CartHub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("user_id", c.userID).Msg("ws read error")
			}
			return
		}
	}
}

func (h *CartHub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug().Err(err).Str("user_id", c.userID).Msg("ws write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
