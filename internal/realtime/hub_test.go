package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, h *Hub, userID uint) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.ServeWS(w, r, userID); err != nil {
			t.Errorf("ServeWS() error = %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, hello, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("no greeting: %v", err)
	}
	var frame struct {
		Type string `json:"tipo"`
	}
	if err := json.Unmarshal(hello, &frame); err != nil || frame.Type != "ligado" {
		t.Fatalf("greeting = %s", hello)
	}
	return conn
}

func waitConnections(t *testing.T, h *Hub, userID uint, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Connections(userID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("Connections(%d) = %d, want %d", userID, h.Connections(userID), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_PushReachesEveryConnectionOfUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub("*")
	go h.Run(ctx)

	first := dial(t, h, 7)
	second := dial(t, h, 7)
	other := dial(t, h, 8)

	waitConnections(t, h, 7, 2)
	waitConnections(t, h, 8, 1)

	if err := h.Push(ctx, 7, []byte(`{"tipo":"notificacao"}`)); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	for i, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("connection %d: ReadMessage() error = %v", i, err)
		}
		if string(msg) != `{"tipo":"notificacao"}` {
			t.Errorf("connection %d got %s", i, msg)
		}
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, msg, err := other.ReadMessage(); err == nil {
		t.Errorf("user 8 received %s", msg)
	}
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub("*")
	go h.Run(ctx)

	conn := dial(t, h, 3)
	waitConnections(t, h, 3, 1)
	conn.Close()
	waitConnections(t, h, 3, 0)
}

func TestHub_PushAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub("*")
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// fill the buffer so Push has to wait on the closed hub
	for i := 0; i < cap(h.broadcast); i++ {
		h.broadcast <- delivery{}
	}
	if err := h.Push(context.Background(), 1, nil); err != ErrHubClosed {
		t.Errorf("Push() error = %v, want ErrHubClosed", err)
	}
}

func TestHub_CheckOrigin(t *testing.T) {
	h := NewHub("https://foodshare.pt")

	tests := []struct {
		origin string
		want   bool
	}{
		{origin: "", want: true},
		{origin: "https://foodshare.pt", want: true},
		{origin: "https://evil.example", want: false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws/notificacoes", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := h.upgrader.CheckOrigin(r); got != tt.want {
			t.Errorf("CheckOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestUserFromChannel(t *testing.T) {
	tests := []struct {
		channel string
		want    uint
		ok      bool
	}{
		{channel: Channel(42), want: 42, ok: true},
		{channel: "notifications:0", ok: false},
		{channel: "notifications:abc", ok: false},
		{channel: "bids:1", ok: false},
	}
	for _, tt := range tests {
		got, ok := userFromChannel(tt.channel)
		if got != tt.want || ok != tt.ok {
			t.Errorf("userFromChannel(%q) = %d, %v; want %d, %v", tt.channel, got, ok, tt.want, tt.ok)
		}
	}
}
