package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestProperty_WritesWithoutTokenAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/v1/"+pathSuffix, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ValidTokensCarryClaims(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid tokens expose subject and role", prop.ForAll(
		func(subject string, role string) bool {
			token := signToken(t, testSecret, subject, role, time.Hour)

			called := false
			handler := AuthMiddleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject, ok1 := GetSubject(r.Context())
				gotRole, ok2 := GetRole(r.Context())
				called = ok1 && ok2 && gotSubject == subject && gotRole == role
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("PUT", "/api/v1/brands", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return called && w.Code == http.StatusOK
		},
		gen.Identifier(),
		gen.OneConstOf(RoleCatalogWriter, RoleAdmin, "reader"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	cases := map[string]string{
		"expired":      "Bearer " + signToken(t, testSecret, "importer", RoleCatalogWriter, -time.Hour),
		"wrong secret": "Bearer " + signToken(t, "other-secret", "importer", RoleCatalogWriter, time.Hour),
		"no subject":   "Bearer " + signToken(t, testSecret, "", RoleCatalogWriter, time.Hour),
		"no role":      "Bearer " + signToken(t, testSecret, "importer", "", time.Hour),
		"not bearer":   "Basic dXNlcjpwYXNz",
		"empty bearer": "Bearer ",
		"garbage":      "Bearer not.a.token",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())
			req := httptest.NewRequest("POST", "/api/v1/products", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireWriter(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		role   string
		want   int
	}{
		{"writer role", testSecret, RoleCatalogWriter, http.StatusOK},
		{"admin role", testSecret, RoleAdmin, http.StatusOK},
		{"reader role", testSecret, "reader", http.StatusForbidden},
		{"auth disabled", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireWriter(tt.secret, zap.NewNop())(okHandler())
			req := httptest.NewRequest("DELETE", "/api/v1/brands/1", nil)
			if tt.secret != "" {
				req.Header.Set("Authorization", "Bearer "+signToken(t, tt.secret, "importer", tt.role, time.Hour))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
