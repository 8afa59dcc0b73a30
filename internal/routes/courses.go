package routes

import (
	"net/http"

	"github.com/giannis84/course-catalog/internal/auth"
	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/handlers"
	"github.com/giannis84/course-catalog/internal/logging"
)

func listCoursesRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var userID *int64
		if id, ok := auth.UserIDFromContext(ctx); ok {
			userID = &id
		}

		courses, err := handlers.ListCourses(ctx, store, store, userID)
		if err != nil {
			respondWithFailure(w, r, "listCourses", err)
			return
		}

		logging.Log(ctx).Layer("routes").Op("listCourses").Bool("personalized", userID != nil).
			Int("count", len(courses)).Int("status_code", http.StatusOK).
			Info("courses listed")
		respondWithJSON(w, http.StatusOK, courses)
	}
}

func getCourseRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID, err := parseIDParam(r, "courseID")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid course ID")
			return
		}

		course, err := handlers.GetCourse(r.Context(), store, courseID)
		if err != nil {
			respondWithFailure(w, r, "getCourse", err)
			return
		}
		respondWithJSON(w, http.StatusOK, course)
	}
}

func createCourseRoute(store database.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, _ := auth.UserIDFromContext(ctx)

		var req handlers.CreateCourseRequest
		if !decodeJSON(w, r, "createCourse", &req) {
			return
		}

		logging.Log(ctx).Layer("routes").Op("createCourse").User(userID).Str("name", req.Name).
			Info("received create course request")

		course, err := handlers.CreateCourse(ctx, store, &req)
		if err != nil {
			respondWithFailure(w, r, "createCourse", err)
			return
		}

		logging.Log(ctx).Layer("routes").Op("createCourse").User(userID).Course(course.ID).
			Int("status_code", http.StatusCreated).Info("course created successfully")
		respondWithJSON(w, http.StatusCreated, course)
	}
}
