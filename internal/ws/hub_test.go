package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/plinko/internal/game"
	"github.com/playmatatu/plinko/internal/table"
)

func newTestClient(h *Hub, id string) *Client {
	return &Client{id: id, hub: h, send: make(chan []byte, 4)}
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
}

func TestHubBroadcastReachesRegisteredClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	a := newTestClient(h, "a")
	b := newTestClient(h, "b")
	h.register <- a
	h.register <- b
	waitForCount(t, h, 2)

	h.Broadcast(map[string]string{"type": "frame"})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if !strings.Contains(string(msg), `"frame"`) {
				t.Errorf("client %s got %s", c.id, msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %s received nothing", c.id)
		}
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := newTestClient(h, "a")
	h.register <- c
	waitForCount(t, h, 1)
	h.unregister <- c
	waitForCount(t, h, 0)

	if _, ok := <-c.send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestBroadcastRawSkipsFullClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := &Client{id: "slow", hub: h, send: make(chan []byte, 1)}
	h.register <- c
	waitForCount(t, h, 1)

	h.BroadcastRaw([]byte("one"))
	h.BroadcastRaw([]byte("two"))

	if got := string(<-c.send); got != "one" {
		t.Errorf("first message = %q, want one", got)
	}
	select {
	case msg := <-c.send:
		t.Errorf("unexpected second message %q", msg)
	default:
	}
}

func TestRelayEventFiltersType(t *testing.T) {
	h := NewHub()
	go h.Run()
	c := newTestClient(h, "a")
	h.register <- c
	waitForCount(t, h, 1)

	if relayEvent(h, []byte("not json")) {
		t.Error("relayed invalid json")
	}
	if relayEvent(h, []byte(`{"type":"frame"}`)) {
		t.Error("relayed a frame")
	}
	if !relayEvent(h, []byte(`{"type":"`+table.MsgEvent+`"}`)) {
		t.Error("table event not relayed")
	}

	select {
	case msg := <-c.send:
		if !strings.Contains(string(msg), table.MsgEvent) {
			t.Errorf("got %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no relayed message")
	}
}

type fakeDropper struct {
	drops int
}

func (f *fakeDropper) Drop() table.DropResult {
	f.drops++
	return table.DropResult{Accepted: true, Balance: 990, BallID: int64(f.drops)}
}

func (f *fakeDropper) Snapshot() table.Snapshot {
	return table.Snapshot{SessionID: "s", Balance: 990}
}

func readReply(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.send:
		var out map[string]interface{}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("reply is not json: %v", err)
		}
		return out
	default:
		t.Fatal("no reply queued")
	}
	return nil
}

func TestHandleMessage(t *testing.T) {
	c := newTestClient(nil, "a")
	d := &fakeDropper{}

	c.handleMessage(d, WSMessage{Type: "drop"})
	reply := readReply(t, c)
	if reply["type"] != "drop_result" || reply["accepted"] != true {
		t.Errorf("drop reply = %v", reply)
	}
	if d.drops != 1 {
		t.Errorf("drops = %d, want 1", d.drops)
	}

	c.handleMessage(d, WSMessage{Type: "snapshot"})
	if reply := readReply(t, c); reply["type"] != "snapshot" {
		t.Errorf("snapshot reply = %v", reply)
	}

	c.handleMessage(d, WSMessage{Type: "shuffle"})
	if reply := readReply(t, c); reply["type"] != "error" {
		t.Errorf("unknown type reply = %v", reply)
	}
}

func TestHandleWebSocketHelloAndDrop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mgr, err := table.NewManager(nil, nil, game.DefaultConfig(), table.Options{Seed: 7})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	r := gin.New()
	r.GET("/ws", HandleWebSocket(mgr))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var hello struct {
		Type   string         `json:"type"`
		Layout game.Layout    `json:"layout"`
		Snap   table.Snapshot `json:"snapshot"`
	}
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "hello" {
		t.Fatalf("first message type = %q, want hello", hello.Type)
	}
	if len(hello.Layout.Pegs) == 0 || len(hello.Layout.Zones) != 9 {
		t.Errorf("layout has %d pegs and %d zones", len(hello.Layout.Pegs), len(hello.Layout.Zones))
	}
	if hello.Snap.Balance != 1000 {
		t.Errorf("hello balance = %v, want 1000", hello.Snap.Balance)
	}

	if err := conn.WriteJSON(map[string]string{"type": "drop"}); err != nil {
		t.Fatalf("write drop: %v", err)
	}
	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg["type"] != "drop_result" {
			continue
		}
		if msg["accepted"] != true || msg["balance"] != float64(990) {
			t.Errorf("drop_result = %v", msg)
		}
		break
	}
}
