package routes

import (
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/giannis84/course-catalog/internal/auth"
	"github.com/giannis84/course-catalog/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

const maxBodyBytes = 1 << 20

// requireJSONAccept rejects requests whose Accept header does not allow a JSON response.
func requireJSONAccept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(r.Header.Get("Accept")) {
			respondWithError(w, http.StatusNotAcceptable, "Accept header must include application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func acceptsJSON(header string) bool {
	for _, part := range strings.Split(header, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "application/json", "application/*", "*/*":
			return true
		}
	}
	return false
}

// requireJSONContentType rejects request bodies that are not JSON and caps their size.
func requireJSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				respondWithError(w, http.StatusUnsupportedMediaType, "Content-Type header must be application/json")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware is a no-op when no origins are configured.
func corsMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

// rateLimitMiddleware limits requests per client IP; disabled when Requests is zero.
func rateLimitMiddleware(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(cfg.Requests, cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests")
		}),
	)
}

// requireSelf allows a request on /users/{userID} only for the authenticated user itself.
func requireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pathID, err := parseIDParam(r, "userID")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		tokenID, ok := auth.UserIDFromContext(r.Context())
		if !ok || tokenID != pathID {
			respondWithError(w, http.StatusForbidden, "Access to another user's data is not allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseIDParam reads a URL parameter that must fit an INTEGER id column.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 || id > math.MaxInt32 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
