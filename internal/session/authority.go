// Package session issues and verifies the self-contained admin session token.
//
// A token is base64url(claim + "." + hex(hmac_sha256(secret, claim))) where the
// claim is the JSON object {"admin":true,"exp":<unix millis>}. Nothing is stored
// server side, so a token stays valid until it expires or the secret changes.
package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/pkg/sign"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 24 * time.Hour

// maxTokenLen bounds the work done on attacker supplied input.
const maxTokenLen = 4096

var ErrNotConfigured = fmt.Errorf("session secret: %w", appErr.ErrNotConfigured)

type claim struct {
	Admin *bool  `json:"admin"`
	Exp   *int64 `json:"exp"`
}

type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(a *Authority)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAuthority(secret []byte, ttl time.Duration, opts ...Option) *Authority {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	a := &Authority{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Authority) TTL() time.Duration {
	return a.ttl
}

// Configured reports whether a signing secret is present.
func (a *Authority) Configured() bool {
	return a != nil && len(a.secret) > 0
}

// Issue mints a token expiring ttl from now.
func (a *Authority) Issue() (string, error) {
	if !a.Configured() {
		return "", ErrNotConfigured
	}
	admin := true
	exp := a.now().Add(a.ttl).UnixMilli()
	payload, err := json.Marshal(claim{Admin: &admin, Exp: &exp})
	if err != nil {
		return "", err
	}
	sig, err := sign.Sign(string(payload), a.secret)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString([]byte(string(payload) + "." + sig)), nil
}

// Verify reports whether token is a valid, unexpired admin token under the
// current secret. Any decoding problem yields false.
func (a *Authority) Verify(token string) bool {
	if !a.Configured() || token == "" || len(token) > maxTokenLen {
		return false
	}
	raw, err := decodeToken(token)
	if err != nil {
		return false
	}
	idx := strings.LastIndexByte(raw, '.')
	if idx <= 0 || idx == len(raw)-1 {
		return false
	}
	payload, sig := raw[:idx], raw[idx+1:]
	if !sign.Verify(payload, sig, a.secret) {
		return false
	}
	var c claim
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return false
	}
	if c.Admin == nil || !*c.Admin || c.Exp == nil {
		return false
	}
	return *c.Exp > a.now().UnixMilli()
}

func decodeToken(token string) (string, error) {
	data, err := base64.RawURLEncoding.Strict().DecodeString(token)
	if err != nil {
		data, err = base64.URLEncoding.Strict().DecodeString(token)
		if err != nil {
			return "", err
		}
	}
	return string(data), nil
}
