package utils

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agenda-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = secret
	t.Cleanup(func() { config.AppConfig.JWTSecret = prev })
}

func TestTokenRoundTrip(t *testing.T) {
	withSecret(t, "test-secret")
	id := uuid.New()

	token, err := GenerateToken(id.String())
	if err != nil {
		t.Fatal(err)
	}
	auth, err := ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if auth.ProviderID != id {
		t.Errorf("ProviderID = %s, want %s", auth.ProviderID, id)
	}
}

func TestParseTokenRejects(t *testing.T) {
	withSecret(t, "test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret"))

	otherKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	otherKeyToken, _ := otherKey.SignedString([]byte("other-secret"))

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	badSubjectToken, _ := badSubject.SignedString([]byte("test-secret"))

	for name, token := range map[string]string{
		"expired":     expiredToken,
		"other key":   otherKeyToken,
		"bad subject": badSubjectToken,
		"garbage":     "abc.def.ghi",
	} {
		if _, err := ParseToken(token); err == nil {
			t.Errorf("%s: token accepted", name)
		}
	}
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	withSecret(t, "")
	if _, err := GenerateToken(uuid.NewString()); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestGenerateSecret(t *testing.T) {
	a, b := GenerateSecret(), GenerateSecret()
	if a == b {
		t.Fatal("secrets repeat")
	}
	raw, err := base64.StdEncoding.DecodeString(a)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("len = %d, want 32", len(raw))
	}

	prevHash, prevBlock := config.AppConfig.CancelTokenHashKey, config.AppConfig.CancelTokenBlockKey
	config.AppConfig.CancelTokenHashKey, config.AppConfig.CancelTokenBlockKey = a, b
	t.Cleanup(func() {
		config.AppConfig.CancelTokenHashKey, config.AppConfig.CancelTokenBlockKey = prevHash, prevBlock
	})
	tokens, err := CancelTokensFromConfig()
	if err != nil {
		t.Fatalf("generated keys rejected: %v", err)
	}
	if _, err := tokens.Issue(uuid.New(), "5511999990000"); err != nil {
		t.Fatalf("issue: %v", err)
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withSecret(t, "test-secret")
	id := uuid.New()
	token, err := GenerateToken(id.String())
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		auth, ok := AuthFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, auth.ProviderID.String())
	})

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "bearer", header: "Bearer " + token, want: http.StatusOK},
		{name: "cookie", cookie: token, want: http.StatusOK},
		{name: "missing", want: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer nope", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if tt.cookie != "" {
			req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.want)
		}
		if tt.want == http.StatusOK && w.Body.String() != id.String() {
			t.Errorf("%s: body = %q", tt.name, w.Body.String())
		}
	}
}
