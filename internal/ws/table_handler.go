package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/plinko/internal/table"
)

const maxMessageSize = 4096

// TableHub is the single hub for the table's displays.
var TableHub *Hub

func init() {
	TableHub = NewHub()
	go TableHub.Run()
}

// Dropper is the part of the table a display may drive.
type Dropper interface {
	Drop() table.DropResult
	Snapshot() table.Snapshot
}

func newClientID() string {
	b := make([]byte, 6)
	rand.Read(b)
	return "d_" + hex.EncodeToString(b)
}

// HandleWebSocket upgrades a display connection. The display first receives
// a hello with the static layout and the current snapshot, then frames and
// events as the table runs. It may send {"type":"drop"} at any time.
func HandleWebSocket(mgr *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			id:   newClientID(),
			conn: conn,
			hub:  TableHub,
			send: make(chan []byte, sendBuffer),
		}
		TableHub.register <- client

		client.sendJSON(map[string]interface{}{
			"type":     "hello",
			"layout":   mgr.Layout(),
			"snapshot": mgr.Snapshot(),
		})

		go client.writePump()
		go client.readPump(mgr)
	}
}

// readPump reads commands from the display until the connection closes.
func (c *Client) readPump(d Dropper) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error for display %s: %v", c.id, err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}
		c.handleMessage(d, msg)
	}
}

func (c *Client) handleMessage(d Dropper, msg WSMessage) {
	switch msg.Type {
	case "drop":
		res := d.Drop()
		c.sendJSON(map[string]interface{}{
			"type":     "drop_result",
			"accepted": res.Accepted,
			"balance":  res.Balance,
			"ball_id":  res.BallID,
		})
	case "snapshot":
		c.sendJSON(map[string]interface{}{
			"type":     "snapshot",
			"snapshot": d.Snapshot(),
		})
	case "ping":
		c.sendJSON(map[string]interface{}{"type": "pong"})
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}
