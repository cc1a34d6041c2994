// Package sign produces and checks detached HMAC-SHA256 signatures rendered as hex.
package sign

import (
	"encoding/hex"
	"errors"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrEmptyKey = errors.New("sign: empty key")

// Sign returns the lowercase hex HMAC-SHA256 of payload under key.
func Sign(payload string, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}
	sig, err := jwtlib.SigningMethodHS256.Sign(payload, key)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

// Verify reports whether sigHex is the signature of payload under key.
// Only canonical lowercase hex is accepted. The byte comparison runs in
// constant time.
func Verify(payload, sigHex string, key []byte) bool {
	if len(key) == 0 || sigHex == "" || strings.ToLower(sigHex) != sigHex {
		return false
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	return jwtlib.SigningMethodHS256.Verify(payload, sig, key) == nil
}
