package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/giannis84/course-catalog/internal/auth"
	"github.com/giannis84/course-catalog/internal/config"
	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/handlers"
	"github.com/giannis84/course-catalog/internal/logging"
	"github.com/go-chi/chi/v5"
)

// APIConfig carries everything the API routes depend on.
type APIConfig struct {
	Store     database.Repository
	Auth      auth.Config
	RateLimit config.RateLimitConfig
	CORS      config.CORSConfig
}

// RegisterAPIRoutes sets up the course catalog API routes.
// HTTP concerns are handled here, while business logic is delegated to the handlers package.
func RegisterAPIRoutes(cfg APIConfig) func(r chi.Router) {
	requireAuth := auth.JWTMiddleware(cfg.Auth)

	return func(r chi.Router) {
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(corsMiddleware(cfg.CORS))
			r.Use(rateLimitMiddleware(cfg.RateLimit))
			r.Use(requireJSONAccept)
			r.Use(requireJSONContentType)

			r.Post("/register", registerRoute(cfg.Store))
			r.Post("/login", loginRoute(cfg.Store, cfg.Auth))
			r.Get("/interests", listInterestsRoute(cfg.Store))

			r.Route("/courses", func(r chi.Router) {
				r.With(auth.OptionalJWT(cfg.Auth)).Get("/", listCoursesRoute(cfg.Store))
				r.With(requireAuth).Post("/", createCourseRoute(cfg.Store))
				r.Route("/{courseID}", func(r chi.Router) {
					r.Get("/", getCourseRoute(cfg.Store))
					r.Get("/interests", getCourseInterestsRoute(cfg.Store))
					r.With(requireAuth).Post("/interests", saveCourseInterestsRoute(cfg.Store))
				})
			})

			r.Route("/users/{userID}", func(r chi.Router) {
				r.Use(requireAuth)
				r.Use(requireSelf)
				r.Get("/profile", getProfileRoute(cfg.Store))
				r.Put("/profile", updateProfileRoute(cfg.Store))
				r.Get("/interests", getUserInterestsRoute(cfg.Store))
				r.Post("/interests", saveUserInterestsRoute(cfg.Store))
			})
		})
	}
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// decodeJSON reads the request body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logging.Log(r.Context()).Layer("routes").Op(op).Err(err).
			Warn("failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondWithFailure maps an error from the handlers or the store onto an HTTP status.
func respondWithFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()

	var validationErr *handlers.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logging.Log(ctx).Layer("routes").Op(op).Err(err).Warn("invalid request")
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Details: validationErr.Errors})
	case errors.Is(err, handlers.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, database.ErrUsernameTaken):
		respondWithError(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, database.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, database.ErrAlreadyExists):
		respondWithError(w, http.StatusConflict, "Resource already exists")
	case errors.Is(err, database.ErrNotFound):
		logging.Log(ctx).Layer("routes").Op(op).Err(err).Warn("resource not found")
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrConstraintViolation):
		logging.Log(ctx).Layer("routes").Op(op).Err(err).Warn("unknown interest referenced")
		respondWithError(w, http.StatusUnprocessableEntity, "One or more interestIds do not exist")
	case errors.Is(err, database.ErrStorageUnavailable), errors.Is(err, context.Canceled):
		logging.Log(ctx).Layer("routes").Op(op).Err(err).Error("storage unavailable")
		respondWithError(w, http.StatusServiceUnavailable, "Storage temporarily unavailable, please retry")
	default:
		logging.Log(ctx).Layer("routes").Op(op).Err(err).Error("request failed")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
