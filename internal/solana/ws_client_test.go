package solana

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"solana-governance-kit/internal/address"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// drain keeps a server connection open until the client goes away.
func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func idleServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		drain(conn)
	}))
}

// confirm reads one subscribe request and answers it with subID.
func confirm(t *testing.T, conn *websocket.Conn, method string, subID int64) bool {
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return false
	}

	var req wsRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		t.Errorf("unmarshal request: %v", err)
		return false
	}

	if req.Method != method {
		t.Errorf("expected %s, got %s", method, req.Method)
	}

	resp := wsSubscribeResponse{JSONRPC: "2.0", ID: req.ID, Result: subID}
	if err := conn.WriteJSON(resp); err != nil {
		t.Errorf("write response: %v", err)
		return false
	}
	return true
}

func notification(method string, subID int64, slot uint64, value any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params": map[string]any{
			"subscription": subID,
			"result": map[string]any{
				"context": map[string]any{"slot": slot},
				"value":   value,
			},
		},
	}
}

func TestWSClient_Connect(t *testing.T) {
	server := idleServer()
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	if client.closed.Load() {
		t.Error("client should not be closed")
	}
}

func TestWSClient_SubscribeAccount(t *testing.T) {
	watched := address.PublicKey{7}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		if !confirm(t, c, "accountSubscribe", 12345) {
			return
		}

		time.Sleep(50 * time.Millisecond)
		if err := c.WriteJSON(notification("accountNotification", 12345, 100, accountJSON("AQID"))); err != nil {
			t.Errorf("write notification: %v", err)
			return
		}

		drain(c)
	}))
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ch, err := client.SubscribeAccount(ctx, watched)
	if err != nil {
		t.Fatalf("SubscribeAccount: %v", err)
	}

	select {
	case notif := <-ch:
		if notif.Address != watched {
			t.Errorf("expected address %s, got %s", watched, notif.Address)
		}
		if string(notif.Account.Data) != "\x01\x02\x03" {
			t.Errorf("unexpected data %v", notif.Account.Data)
		}
		if notif.Slot != 100 {
			t.Errorf("expected slot 100, got %d", notif.Slot)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for notification")
	}
}

func TestWSClient_SubscribeProgram(t *testing.T) {
	changed := address.PublicKey{8}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		if !confirm(t, c, "programSubscribe", 9) {
			return
		}

		time.Sleep(50 * time.Millisecond)
		value := map[string]any{
			"pubkey":  changed.String(),
			"account": accountJSON("LvmbS5n4dAk="),
		}
		if err := c.WriteJSON(notification("programNotification", 9, 55, value)); err != nil {
			t.Errorf("write notification: %v", err)
			return
		}

		drain(c)
	}))
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ch, err := client.SubscribeProgram(ctx, address.PublicKey{3}, Memcmp(0, []byte{1}))
	if err != nil {
		t.Fatalf("SubscribeProgram: %v", err)
	}

	select {
	case notif := <-ch:
		if notif.Address != changed {
			t.Errorf("expected address %s, got %s", changed, notif.Address)
		}
		if len(notif.Account.Data) != 8 {
			t.Errorf("expected 8 data bytes, got %d", len(notif.Account.Data))
		}
		if notif.Slot != 55 {
			t.Errorf("expected slot 55, got %d", notif.Slot)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for notification")
	}
}

func TestWSClient_ResubscribesAfterReconnect(t *testing.T) {
	var conns atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		n := conns.Add(1)
		if !confirm(t, c, "accountSubscribe", int64(n)) {
			return
		}
		if n == 1 {
			// Drop the first connection right after confirming.
			return
		}

		time.Sleep(200 * time.Millisecond)
		if err := c.WriteJSON(notification("accountNotification", int64(n), 77, accountJSON("AQID"))); err != nil {
			t.Errorf("write notification: %v", err)
			return
		}
		drain(c)
	}))
	defer server.Close()

	config := DefaultWSConfig()
	config.ReconnectDelay = 20 * time.Millisecond
	config.MaxReconnectDelay = 100 * time.Millisecond

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), &config)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ch, err := client.SubscribeAccount(ctx, address.PublicKey{1})
	if err != nil {
		t.Fatalf("SubscribeAccount: %v", err)
	}

	select {
	case notif := <-ch:
		if notif.Slot != 77 {
			t.Errorf("expected slot 77, got %d", notif.Slot)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for notification after reconnect")
	}

	if conns.Load() < 2 {
		t.Errorf("expected a reconnect, got %d connections", conns.Load())
	}
}

func TestWSClient_Close(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	server := idleServer()
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}

	err = client.Close()
	if err != nil {
		t.Errorf("Close: %v", err)
	}

	if !client.closed.Load() {
		t.Error("client should be closed")
	}

	// Double close should be safe
	err = client.Close()
	if err != nil {
		t.Errorf("double Close: %v", err)
	}
}

func TestWSClient_SubscribeAfterClose(t *testing.T) {
	server := idleServer()
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}

	client.Close()

	_, err = client.SubscribeAccount(ctx, address.PublicKey{})
	if !errors.Is(err, ErrClientClosed) {
		t.Errorf("expected ErrClientClosed, got %v", err)
	}
}

func TestWSClient_CustomConfig(t *testing.T) {
	server := idleServer()
	defer server.Close()

	config := &WSClientConfig{
		ReconnectDelay:    100 * time.Millisecond,
		MaxReconnectDelay: 1 * time.Second,
		PingInterval:      5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      5 * time.Second,
		Buffer:            4,
	}

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), config)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	if client.config.PingInterval != 5*time.Second {
		t.Errorf("expected PingInterval 5s, got %v", client.config.PingInterval)
	}

	if client.config.Commitment != "confirmed" {
		t.Errorf("expected default commitment, got %q", client.config.Commitment)
	}
}
