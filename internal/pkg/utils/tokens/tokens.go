package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

const accessTokenBytes = 32

// NewAccessToken generates the opaque bearer credential handed to a client in
// their magic link. 32 random bytes, base64url, 43 chars.
func NewAccessToken() (string, error) {
	b := make([]byte, accessTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	tok := strings.TrimPrefix(header, "Bearer ")
	if tok == "" {
		return "", false
	}
	return tok, true
}
