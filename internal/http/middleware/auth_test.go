// README: Tests for JWT auth middleware and role gating.
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"drivehire/internal/auth"
	"drivehire/internal/http/middleware"
	"drivehire/internal/types"
)

const testSecret = "test-secret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(testSecret))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"actorId": middleware.ActorID(c),
			"role":    middleware.ActorRole(c),
		})
	})
	r.GET("/admin", middleware.RequireRole(types.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuth_MissingHeader(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_InvalidBearerPrefix(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Token sometoken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	token, err := auth.Sign("other-secret", 7, types.RoleDriver, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	token, err := auth.Sign(testSecret, 7, types.RoleDriver, -time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ValidToken_ActorPopulated(t *testing.T) {
	token, err := auth.Sign(testSecret, 42, types.RoleDriver, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "42") {
		t.Errorf("expected actor id 42 in body, got %s", body)
	}
	if !strings.Contains(body, "driver") {
		t.Errorf("expected role driver in body, got %s", body)
	}
}

func TestRequireRole(t *testing.T) {
	r := newTestRouter()

	driverToken, err := auth.Sign(testSecret, 7, types.RoleDriver, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+driverToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for driver on admin route, got %d", w.Code)
	}

	adminToken, err := auth.Sign(testSecret, 1, types.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
}
