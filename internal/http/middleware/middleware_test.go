package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kitefall/pulse-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func triggerRouter(t *testing.T, token string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tm := NewTriggerMiddleware(testLogger(t), token)
	r.POST("/internal/pipeline/run", tm.RequireToken(), func(c *gin.Context) {
		c.String(http.StatusOK, "ran")
	})
	return r
}

func TestTriggerMiddleware_AcceptsMatchingToken(t *testing.T) {
	r := triggerRouter(t, "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal/pipeline/run", nil)
	req.Header.Set("X-Pipeline-Token", "s3cret")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTriggerMiddleware_RejectsWrongToken(t *testing.T) {
	r := triggerRouter(t, "s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal/pipeline/run", nil)
	req.Header.Set("X-Pipeline-Token", "wrong")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestTriggerMiddleware_ClosedWithoutConfiguredToken(t *testing.T) {
	r := triggerRouter(t, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal/pipeline/run", nil)
	req.Header.Set("X-Pipeline-Token", "")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with no configured token, got %d", w.Code)
	}
}

func TestIdentityMiddleware_ResolvesUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	im := NewIdentityMiddleware(testLogger(t))

	var got uuid.UUID
	r.GET("/api/ping", im.RequireUser(), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			t.Fatal("identity missing after middleware")
		}
		got = id
		c.String(http.StatusOK, "pong")
	})

	want := uuid.New()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-User-ID", want.String())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != want {
		t.Fatalf("resolved %s, want %s", got, want)
	}
}

func TestIdentityMiddleware_RejectsMissingOrBadHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	im := NewIdentityMiddleware(testLogger(t))
	r.GET("/api/ping", im.RequireUser(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	for _, header := range []string{"", "not-a-uuid"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		if header != "" {
			req.Header.Set("X-User-ID", header)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}
