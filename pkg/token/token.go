// Package token mints and verifies the opaque bearer credentials embedded
// in access links. A token binds an email and role to one booking; links
// never expire, possession is the whole authentication scheme.
package token

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleRequester = "requester"
	RoleApprover  = "approver"
)

// Claims is the payload bound into a signed link token.
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	BookingID string `json:"booking_id"`
	Party     string `json:"party,omitempty"`
	IssuedAt  int64  `json:"iat"`
}

// Signer issues and verifies HMAC-SHA256 signed tokens.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Generate signs the claims and returns the urlsafe token string.
func (s *Signer) Generate(claims Claims) (string, error) {
	if claims.IssuedAt == 0 {
		claims.IssuedAt = time.Now().Unix()
	}

	message, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("encode token claims: %w", err)
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(message)
	signature := mac.Sum(nil)

	raw := append(append(message, '.'), signature...)
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Verify checks the signature and recovers the bound claims. Any decode or
// signature failure yields (nil, false); callers treat that as an invalid
// link, never distinguishing why.
func (s *Signer) Verify(tok string) (*Claims, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		return nil, false
	}

	parts := bytes.SplitN(raw, []byte{'.'}, 2)
	if len(parts) != 2 {
		return nil, false
	}
	message, signature := parts[0], parts[1]

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(message)
	if !hmac.Equal(signature, mac.Sum(nil)) {
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(message, &claims); err != nil {
		return nil, false
	}

	return &claims, true
}
