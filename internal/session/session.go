// Package session identifies a connected client and issues reconnect
// tickets it can present to resume a frame stream after a brief drop
// without a full baseline resend.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is one connected client's identity.
type Session struct {
	ID         string
	LastFrame  int32
	ConnectedAt time.Time
}

// New mints a fresh session with a random ID.
func New(lastFrame int32) Session {
	return Session{
		ID:          uuid.NewString(),
		LastFrame:   lastFrame,
		ConnectedAt: time.Now(),
	}
}

// ReconnectClaims are the JWT claims carried in a reconnect ticket: enough
// to let a server resume delta compression against the client's last
// acknowledged frame instead of forcing a fresh baseline.
type ReconnectClaims struct {
	jwt.RegisteredClaims
	LastFrame int32 `json:"last_frame"`
}

// IssueTicket signs a short-lived reconnect ticket for sess using key.
func IssueTicket(key []byte, sess Session, ttl time.Duration) (string, error) {
	claims := ReconnectClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		LastFrame: sess.LastFrame,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("session: sign reconnect ticket: %w", err)
	}
	return signed, nil
}

// ParseTicket validates a reconnect ticket and returns its claims.
func ParseTicket(key []byte, ticket string) (*ReconnectClaims, error) {
	token, err := jwt.ParseWithClaims(ticket, &ReconnectClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("session: parse reconnect ticket: %w", err)
	}
	claims, ok := token.Claims.(*ReconnectClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("session: invalid reconnect ticket claims")
	}
	return claims, nil
}
