package chi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/searchsync/internal/logger"
)

var (
	errNoCredentials = errors.New("missing authorization header")
	errNotBearer     = errors.New("authorization header must use Bearer scheme")
	errUnknownKey    = errors.New("invalid api key")
)

// keyring holds the API keys accepted on hook routes.
type keyring [][]byte

func newKeyring(keys []string) keyring {
	var k keyring
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			k = append(k, []byte(key))
		}
	}
	return k
}

// contains compares token against every key in constant time.
func (k keyring) contains(token string) bool {
	match := 0
	for _, key := range k {
		match |= subtle.ConstantTimeCompare(key, []byte(token))
	}
	return match == 1
}

// bearerToken returns the credentials of an "Authorization: Bearer <token>" header.
// The scheme name is case-insensitive.
func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errNoCredentials
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errNotBearer
	}
	return strings.TrimSpace(token), nil
}

// HookAuth guards the hook routes with bearer API keys. With no keys configured
// every request passes.
func HookAuth(apiKeys []string) func(http.Handler) http.Handler {
	keys := newKeyring(apiKeys)

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err == nil && !keys.contains(token) {
				err = errUnknownKey
			}
			if err != nil {
				logpkg.FromContext(r.Context()).Warn("Rejected hook request",
					zap.String("path", r.URL.Path),
					zap.String("reason", err.Error()),
				)
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
