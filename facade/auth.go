package facade

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"unicode/utf8"
)

// TokenPrefix starts the Authorization header value of every write.
const TokenPrefix = "Token: "

// Authorizer decides whether a caller may write. The zero value, like one
// built with an empty secret, rejects every write.
type Authorizer struct {
	secret string
}

func NewAuthorizer(secret string) Authorizer {
	return Authorizer{secret: secret}
}

// Enabled reports whether any write can ever be authorized.
func (a Authorizer) Enabled() bool {
	return a.secret != ""
}

// Authorize checks the Authorization header against the configured secret.
func (a Authorizer) Authorize(header http.Header) bool {
	if !a.Enabled() {
		return false
	}
	value := header.Get("Authorization")
	if !utf8.ValidString(value) || !strings.HasPrefix(value, TokenPrefix) {
		return false
	}
	token := strings.TrimPrefix(value, TokenPrefix)
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.secret)) == 1
}
