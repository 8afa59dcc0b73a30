package routes

import (
	"net/http"

	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/handlers"
	"github.com/giannis84/course-catalog/internal/logging"
)

// SaveInterestsResponse echoes the interest set actually stored.
type SaveInterestsResponse struct {
	Message     string  `json:"message"`
	InterestIDs []int64 `json:"interestIds"`
}

func listInterestsRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		interests, err := handlers.ListInterests(r.Context(), store)
		if err != nil {
			respondWithFailure(w, r, "listInterests", err)
			return
		}
		respondWithJSON(w, http.StatusOK, interests)
	}
}

func getUserInterestsRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := parseIDParam(r, "userID")

		interests, err := handlers.GetUserInterests(r.Context(), store, userID)
		if err != nil {
			respondWithFailure(w, r, "getUserInterests", err)
			return
		}
		respondWithJSON(w, http.StatusOK, interests)
	}
}

func saveUserInterestsRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, _ := parseIDParam(r, "userID")

		var req handlers.SaveInterestsRequest
		if !decodeJSON(w, r, "saveUserInterests", &req) {
			return
		}

		logging.Log(ctx).Layer("routes").Op("saveUserInterests").User(userID).Interests(req.InterestIDs).
			Info("received save user interests request")

		ids, err := handlers.SaveUserInterests(ctx, store, userID, req.InterestIDs)
		if err != nil {
			respondWithFailure(w, r, "saveUserInterests", err)
			return
		}

		logging.Log(ctx).Layer("routes").Op("saveUserInterests").User(userID).Int("count", len(ids)).
			Int("status_code", http.StatusOK).Info("user interests updated successfully")
		respondWithJSON(w, http.StatusOK, SaveInterestsResponse{
			Message:     "User interests updated successfully",
			InterestIDs: ids,
		})
	}
}

func getCourseInterestsRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := parseIDParam(r, "courseID")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid course ID")
			return
		}

		interests, err := handlers.GetCourseInterests(r.Context(), store, courseID)
		if err != nil {
			respondWithFailure(w, r, "getCourseInterests", err)
			return
		}
		respondWithJSON(w, http.StatusOK, interests)
	}
}

func saveCourseInterestsRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		courseID, err := parseIDParam(r, "courseID")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid course ID")
			return
		}

		var req handlers.SaveInterestsRequest
		if !decodeJSON(w, r, "saveCourseInterests", &req) {
			return
		}

		logging.Log(ctx).Layer("routes").Op("saveCourseInterests").Course(courseID).Interests(req.InterestIDs).
			Info("received save course interests request")

		ids, err := handlers.SaveCourseInterests(ctx, store, courseID, req.InterestIDs)
		if err != nil {
			respondWithFailure(w, r, "saveCourseInterests", err)
			return
		}

		logging.Log(ctx).Layer("routes").Op("saveCourseInterests").Course(courseID).Int("count", len(ids)).
			Int("status_code", http.StatusOK).Info("course interests updated successfully")
		respondWithJSON(w, http.StatusOK, SaveInterestsResponse{
			Message:     "Course interests updated successfully",
			InterestIDs: ids,
		})
	}
}
