package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("test-secret")

func signedToken(t *testing.T, key []byte, method jwt.SigningMethod) string {
	t.Helper()
	claims := jwt.MapClaims{"user_id": "u1"}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name         string
		header       string
		expectedCode int
		expectedUser string
	}{
		{
			name:         "missing header",
			header:       "",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "not a bearer token",
			header:       "Basic abc",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "garbage token",
			header:       "Bearer not.a.jwt",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "wrong key",
			header:       "Bearer " + signedToken(t, []byte("other"), jwt.SigningMethodHS256),
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "valid token",
			header:       "Bearer " + signedToken(t, secret, jwt.SigningMethodHS256),
			expectedCode: http.StatusOK,
			expectedUser: "u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = GetUserIDFromContext(r.Context())
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/notify", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			BearerAuth(secret)(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if gotUser != tt.expectedUser {
				t.Errorf("expected user %q in context, got %q", tt.expectedUser, gotUser)
			}
		})
	}
}
