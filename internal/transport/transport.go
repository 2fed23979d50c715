// Package transport defines the PacketSource a FrameAssembler reads wire
// packets from, plus a WebSocket-backed implementation suitable for a
// browser-hosted client and a zstd-compressed capture codec for replaying
// recorded sessions.
package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ernie/q2netcore/internal/session"
)

// reconnectTicketHeader carries a signed session.ReconnectClaims ticket on
// the WebSocket upgrade handshake, letting a dropped client resume delta
// compression against its last acknowledged frame instead of forcing a
// fresh baseline (§9 reconnect design note).
const reconnectTicketHeader = "X-Reconnect-Ticket"

// PacketSource yields one complete server packet per call. Real
// implementations read framed messages off a socket; test code can supply
// a canned sequence.
type PacketSource interface {
	ReadPacket(ctx context.Context) ([]byte, error)
	Close() error
}

// WebSocketSource reads binary messages off a gorilla/websocket connection,
// one message per packet, matching the engine's one-packet-per-datagram
// framing over a transport that otherwise has no natural message
// boundaries.
type WebSocketSource struct {
	conn *websocket.Conn
}

// DialWebSocketSource connects to url and returns a ready PacketSource. When
// ticket is non-empty it's attached as a reconnect ticket header so the
// server can resume the client's prior session instead of starting fresh.
func DialWebSocketSource(ctx context.Context, url string, ticket string) (*WebSocketSource, error) {
	header := make(http.Header)
	if ticket != "" {
		header.Set(reconnectTicketHeader, ticket)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}
	return &WebSocketSource{conn: conn}, nil
}

var upgrader = websocket.Upgrader{}

// AcceptWebSocketSource upgrades an incoming HTTP request to a WebSocket
// PacketSource, verifying a reconnect ticket against key if the client
// presented one. A nil claims return means the client connected fresh.
func AcceptWebSocketSource(w http.ResponseWriter, r *http.Request, key []byte) (*WebSocketSource, *session.ReconnectClaims, error) {
	var claims *session.ReconnectClaims
	if ticket := r.Header.Get(reconnectTicketHeader); ticket != "" {
		c, err := session.ParseTicket(key, ticket)
		if err != nil {
			return nil, nil, fmt.Errorf("transport: reconnect ticket: %w", err)
		}
		claims = c
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("transport: upgrade: %w", err)
	}
	return &WebSocketSource{conn: conn}, claims, nil
}

func (s *WebSocketSource) ReadPacket(ctx context.Context) ([]byte, error) {
	msgType, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("transport: read message: %w", err)
	}
	if msgType != websocket.BinaryMessage {
		return nil, fmt.Errorf("transport: unexpected message type %d", msgType)
	}
	return data, nil
}

func (s *WebSocketSource) Close() error {
	return s.conn.Close()
}

// WritePacket sends data as one binary WebSocket message, the server-side
// half of the same framing WebSocketSource reads.
func (s *WebSocketSource) WritePacket(data []byte) error {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("transport: write message: %w", err)
	}
	return nil
}
