// Package session implements the signed session cookie and the route policy
// that gates the admin and dashboard areas.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// MaxAge is the session cookie lifetime in seconds.
const MaxAge = 24 * 60 * 60

// Session is an authenticated principal.
type Session struct {
	Username string
	Role     string
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}

// Codec encodes sessions into tamper-evident cookie values and back. The wire
// format is "username|role|mac" where mac is the hex HMAC-SHA256 of
// "username|role" under the codec secret.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) Codec {
	return Codec{secret: []byte(secret)}
}

// Encode returns the signed cookie value for s.
func (c Codec) Encode(s Session) string {
	payload := s.Username + "|" + s.Role
	return payload + "|" + c.sign(payload)
}

// Decode parses a cookie value. Any malformed, incomplete, or tampered value
// yields (Session{}, false); decoding never fails harder than "no session".
func (c Codec) Decode(value string) (Session, bool) {
	parts := strings.Split(value, "|")
	if len(parts) != 3 {
		return Session{}, false
	}
	username, role, mac := parts[0], parts[1], parts[2]
	if username == "" || role == "" {
		return Session{}, false
	}
	if !hmac.Equal([]byte(mac), []byte(c.sign(username+"|"+role))) {
		return Session{}, false
	}
	return Session{Username: username, Role: role}, true
}

func (c Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying the session.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session stored by NewContext, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
