package handlers

import (
	"context"
	"time"

	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/logging"
	"github.com/giannis84/course-catalog/internal/models"
)

// SaveInterestsRequest is the body of both interest replace endpoints.
type SaveInterestsRequest struct {
	InterestIDs []int64 `json:"interestIds"`
}

// CourseInterestStore is what course-side interest operations need.
type CourseInterestStore interface {
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
	database.AssociationStore
}

// ListInterests returns the interest catalog ordered by category, then name.
func ListInterests(ctx context.Context, catalog database.CatalogStore) ([]models.Interest, error) {
	return catalog.ListInterests(ctx)
}

// GetUserInterests returns the user's interests. Unlike GetCourseInterests it does not check that
// the owner exists: an unknown user has an empty set. Over HTTP the id always comes from a verified
// token.
func GetUserInterests(ctx context.Context, assoc database.AssociationStore, userID int64) ([]models.Interest, error) {
	if err := validate(checkPositiveID("userId", userID)); err != nil {
		return nil, err
	}
	return assoc.GetUserInterests(ctx, userID)
}

// GetCourseInterests returns the course's interests, or database.ErrNotFound for an unknown course.
func GetCourseInterests(ctx context.Context, store CourseInterestStore, courseID int64) ([]models.Interest, error) {
	if err := validate(checkPositiveID("courseId", courseID)); err != nil {
		return nil, err
	}
	if _, err := store.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return store.GetCourseInterests(ctx, courseID)
}

// SaveUserInterests replaces the user's whole interest set and returns the ids actually stored:
// deduplicated and sorted ascending.
func SaveUserInterests(ctx context.Context, assoc database.AssociationStore, userID int64, interestIDs []int64) ([]int64, error) {
	if err := validate(checkPositiveID("userId", userID), checkInterestIDs(interestIDs)); err != nil {
		return nil, err
	}

	ids := database.NormalizeInterestIDs(interestIDs)
	start := time.Now()
	if err := assoc.ReplaceUserInterests(ctx, userID, ids); err != nil {
		logging.Log(ctx).Layer("handlers").Op("saveUserInterests").User(userID).Interests(ids).
			Dur("duration", time.Since(start)).Err(err).
			Warn("replacing user interests failed")
		return nil, err
	}

	logging.Log(ctx).Layer("handlers").Op("saveUserInterests").User(userID).Int("count", len(ids)).
		Dur("duration", time.Since(start)).Debug("user interests replaced")
	return ids, nil
}

// SaveCourseInterests replaces the course's whole interest set and returns the ids actually stored.
func SaveCourseInterests(ctx context.Context, assoc database.AssociationStore, courseID int64, interestIDs []int64) ([]int64, error) {
	if err := validate(checkPositiveID("courseId", courseID), checkInterestIDs(interestIDs)); err != nil {
		return nil, err
	}

	ids := database.NormalizeInterestIDs(interestIDs)
	start := time.Now()
	if err := assoc.ReplaceCourseInterests(ctx, courseID, ids); err != nil {
		logging.Log(ctx).Layer("handlers").Op("saveCourseInterests").Course(courseID).Interests(ids).
			Dur("duration", time.Since(start)).Err(err).
			Warn("replacing course interests failed")
		return nil, err
	}

	logging.Log(ctx).Layer("handlers").Op("saveCourseInterests").Course(courseID).Int("count", len(ids)).
		Dur("duration", time.Since(start)).Debug("course interests replaced")
	return ids, nil
}
