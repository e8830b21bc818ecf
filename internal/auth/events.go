package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/middleware"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimSuffix(origin, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// non-browser clients send no origin
		return origin == "" || allowed[origin]
	}
}

// handleEvents streams the caller's session changes over a websocket.
// The subscription lives exactly as long as the connection.
func (handler *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already replied to the client
		log.Debugf("session events, upgrade for %s: %s", userID, err)
		return
	}

	events, unsubscribe := handler.events.Subscribe(userID)
	if handler.metricsManager != nil {
		handler.metricsManager.GaugeWSClients.Inc()
		defer handler.metricsManager.GaugeWSClients.Dec()
	}

	client := &eventsClient{
		conn:   conn,
		events: events,
		done:   make(chan struct{}),
	}
	go client.readPump()
	client.writePump()

	unsubscribe()
	if err := conn.Close(); err != nil {
		log.Debugf("session events, close conn: %s", err)
	}
	<-client.done
	log.Tracef("session events stream for %s closed", userID)
}

type eventsClient struct {
	conn   *websocket.Conn
	events <-chan SessionEvent
	// closed when the peer goes away
	done chan struct{}
}

// readPump only watches for pongs and the peer closing the connection.
func (c *eventsClient) readPump() {
	defer close(c.done)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debugf("session events, read: %s", err)
			}
			return
		}
	}
}

func (c *eventsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-c.events:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				log.Debugf("session events, write: %s", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
