package routes

import (
	"net/http"
	"time"

	"github.com/giannis84/course-catalog/internal/auth"
	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/handlers"
	"github.com/giannis84/course-catalog/internal/logging"
	"github.com/giannis84/course-catalog/internal/models"
)

type RegisterResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func registerRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req handlers.RegisterRequest
		if !decodeJSON(w, r, "register", &req) {
			return
		}

		logging.Log(ctx).Layer("routes").Op("register").Str("username", req.Username).
			Info("received register request")

		user, err := handlers.Register(ctx, store, &req)
		if err != nil {
			respondWithFailure(w, r, "register", err)
			return
		}

		logging.Log(ctx).Layer("routes").Op("register").User(user.ID).
			Int("status_code", http.StatusCreated).Info("user registered successfully")
		respondWithJSON(w, http.StatusCreated, RegisterResponse{
			Message: "Registration successful",
			User:    user,
		})
	}
}

func loginRoute(store database.Repository, authCfg auth.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req handlers.LoginRequest
		if !decodeJSON(w, r, "login", &req) {
			return
		}

		user, err := handlers.Login(ctx, store, &req)
		if err != nil {
			respondWithFailure(w, r, "login", err)
			return
		}

		token, err := auth.IssueToken(authCfg, user.ID, user.Role, time.Now())
		if err != nil {
			respondWithFailure(w, r, "login", err)
			return
		}

		logging.Log(ctx).Layer("routes").Op("login").User(user.ID).
			Int("status_code", http.StatusOK).Info("user logged in")
		respondWithJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
	}
}

func getProfileRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := parseIDParam(r, "userID")

		user, err := handlers.GetProfile(r.Context(), store, userID)
		if err != nil {
			respondWithFailure(w, r, "getProfile", err)
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

func updateProfileRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, _ := parseIDParam(r, "userID")

		var req handlers.UpdateProfileRequest
		if !decodeJSON(w, r, "updateProfile", &req) {
			return
		}

		user, err := handlers.UpdateProfile(ctx, store, userID, &req)
		if err != nil {
			respondWithFailure(w, r, "updateProfile", err)
			return
		}

		logging.Log(ctx).Layer("routes").Op("updateProfile").User(userID).
			Int("status_code", http.StatusOK).Info("profile updated successfully")
		respondWithJSON(w, http.StatusOK, user)
	}
}
