// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	applog "liveshift/internal/log"
)

// WebSocketTransport broadcasts spectrum frames to connected WebSocket
// clients as JSON arrays. Sends are rate limited so a fast audio callback
// cannot flood slow clients.
type WebSocketTransport struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.Mutex
	upgrader     websocket.Upgrader
	server       *http.Server

	lastSend        time.Time
	minSendInterval time.Duration
}

// NewWebSocketTransport starts an HTTP server on addr (e.g. ":8080") that
// upgrades connections on /spectrum. minSendInterval bounds the broadcast
// rate; zero or negative defaults to ~30 Hz.
func NewWebSocketTransport(addr string, minSendInterval time.Duration) *WebSocketTransport {
	if minSendInterval <= 0 {
		minSendInterval = 33 * time.Millisecond
	}

	t := &WebSocketTransport{
		clients:         make(map[*websocket.Conn]bool),
		minSendInterval: minSendInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local monitoring tool, any origin is fine
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/spectrum", t.handleWebSocket)
	t.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		applog.Infof("transport: spectrum WebSocket server listening on %s", addr)
		if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
			applog.Errorf("transport: WebSocket server error: %v", err)
		}
	}()

	return t
}

func (t *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		applog.Warnf("transport: WebSocket upgrade error: %v", err)
		return
	}

	t.clientsMutex.Lock()
	t.clients[conn] = true
	count := len(t.clients)
	t.clientsMutex.Unlock()
	applog.Infof("transport: WebSocket client connected (%d total)", count)

	// Drain reads to detect disconnects; clients never send useful data.
	go func() {
		defer func() {
			t.clientsMutex.Lock()
			delete(t.clients, conn)
			t.clientsMutex.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Send broadcasts a frame to all clients, dropping it when the previous
// broadcast was less than minSendInterval ago. Failed clients are removed.
func (t *WebSocketTransport) Send(data []float64) error {
	now := time.Now()
	if now.Sub(t.lastSend) < t.minSendInterval {
		return nil
	}
	t.lastSend = now

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	t.clientsMutex.Lock()
	for client := range t.clients {
		if err := client.WriteMessage(websocket.TextMessage, jsonData); err != nil {
			client.Close()
			delete(t.clients, client)
		}
	}
	t.clientsMutex.Unlock()

	return nil
}

// Close disconnects all clients and shuts down the HTTP server.
func (t *WebSocketTransport) Close() error {
	t.clientsMutex.Lock()
	for client := range t.clients {
		client.Close()
		delete(t.clients, client)
	}
	t.clientsMutex.Unlock()

	return t.server.Close()
}

var _ Transport = (*WebSocketTransport)(nil)
