package auth

import (
	"crypto/subtle"
	"strings"
	"unicode"

	"github.com/psds-microservice/ticket-reply-service/internal/errs"
)

// Normalize drops all whitespace and underscores. Messaging clients that carry the
// form link are known to mangle both, so every comparison goes through this.
func Normalize(token string) string {
	token = strings.TrimSpace(token)
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, token)
}

// Authenticate returns nil when supplied matches secret after normalization.
// An empty secret is reported as errs.ErrSecretNotConfigured, never as unauthorized.
func Authenticate(supplied, secret string) error {
	want := Normalize(secret)
	if want == "" {
		return errs.ErrSecretNotConfigured
	}
	got := Normalize(supplied)
	if got == "" {
		return errs.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return errs.ErrUnauthorized
	}
	return nil
}

// Authenticator holds the secret loaded at startup.
type Authenticator struct {
	secret string
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: secret}
}

func (a *Authenticator) Authenticate(token string) error {
	return Authenticate(token, a.secret)
}

func (a *Authenticator) Configured() bool {
	return Normalize(a.secret) != ""
}

func (a *Authenticator) Info() SecretInfo {
	return Describe(a.secret)
}
