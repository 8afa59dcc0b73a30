package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func TestHealthRoutes(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		path     string
		wantCode int
		wantBody string
	}{
		{name: "live ignores the database", pingErr: errors.New("down"), path: "/health/live", wantCode: http.StatusOK, wantBody: "OK"},
		{name: "ready with database up", path: "/health/ready", wantCode: http.StatusOK, wantBody: "Ready"},
		{name: "ready with database down", pingErr: errors.New("down"), path: "/health/ready", wantCode: http.StatusServiceUnavailable, wantBody: "database not ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			router.Group(RegisterHealthRoutes(fakePinger{err: tt.pingErr}))

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest("GET", tt.path, nil))

			if rr.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rr.Code)
			}
			if rr.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestHealthRoutes_Metrics(t *testing.T) {
	router := chi.NewRouter()
	router.Group(RegisterHealthRoutes(fakePinger{}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected Go runtime metrics in the exposition")
	}
}
