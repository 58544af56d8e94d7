package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	goSign "github.com/MrEthical07/goSign"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the claims injected by [Guard] for the current request.
func ClaimsFromContext(ctx context.Context) (goSign.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(goSign.Claims)
	return claims, ok
}

// Guard returns middleware that verifies the request's bearer token against the named
// keyset before invoking the wrapped handler.
func Guard(adapter *goSign.Adapter, keysetName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adapter == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := adapter.Decode(token, keysetName)
			if err != nil {
				status := http.StatusUnauthorized
				if errors.Is(err, goSign.ErrInvalidKeyset) || errors.Is(err, goSign.ErrAdapterConfiguration) {
					status = http.StatusInternalServerError
				}
				http.Error(w, http.StatusText(status), status)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
