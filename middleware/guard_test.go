package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	goSign "github.com/MrEthical07/goSign"
)

func newGuardedServer(t *testing.T, keysetName string) (*goSign.Adapter, http.Handler) {
	t.Helper()

	adapter, err := goSign.New().
		WithKeysets(map[string]goSign.Keyset{
			"api": {{Algorithm: "HS256", Material: goSign.Secret("s3cr3t")}},
		}).
		Build()
	if err != nil {
		t.Fatalf("build adapter: %v", err)
	}

	handler := Guard(adapter, keysetName)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("expected claims in the request context")
		}
		if claims["sub"] != "u1" {
			t.Errorf("unexpected claims: %v", claims)
		}
		w.WriteHeader(http.StatusOK)
	}))

	return adapter, handler
}

func TestGuardAcceptsValidToken(t *testing.T) {
	adapter, handler := newGuardedServer(t, "api")

	token, err := adapter.Encode(goSign.Claims{"sub": "u1"}, "api", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuardRejectsBadCredentials(t *testing.T) {
	_, handler := newGuardedServer(t, "api")

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwdw=="},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestGuardMapsConfigurationFailuresTo500(t *testing.T) {
	adapter, handler := newGuardedServer(t, "unknown-keyset")

	token, err := adapter.Encode(goSign.Claims{"sub": "u1"}, "api", nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a misconfigured guard, got %d", rec.Code)
	}
}

func TestClaimsFromContextWithoutGuard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := ClaimsFromContext(req.Context()); ok {
		t.Fatal("expected no claims outside a guarded handler")
	}
}
