package database

import (
	"context"

	"github.com/giannis84/course-catalog/internal/models"
)

// AssociationStore maintains the user-interest and course-interest many-to-many relations.
//
// Replace* calls substitute the owner's whole association set atomically: duplicate ids in the
// input are dropped, an unknown owner yields ErrNotFound and an unknown interest id yields
// ErrConstraintViolation, in both cases without changing the stored set.
//
// Get* calls do not check the owner: an unknown user or course yields an empty slice. Callers
// that must tell the two apart look the owner up first (see handlers.GetCourseInterests).
type AssociationStore interface {
	ReplaceUserInterests(ctx context.Context, userID int64, interestIDs []int64) error
	ReplaceCourseInterests(ctx context.Context, courseID int64, interestIDs []int64) error
	GetUserInterests(ctx context.Context, userID int64) ([]models.Interest, error)
	GetCourseInterests(ctx context.Context, courseID int64) ([]models.Interest, error)
	// GetCourseInterestsBulk returns the interests of every requested course, each list ordered by
	// category then name. Courses without interests are absent from the map.
	GetCourseInterestsBulk(ctx context.Context, courseIDs []int64) (map[int64][]models.InterestRef, error)
}

// CatalogStore reads the interest catalog and reads/creates courses.
type CatalogStore interface {
	ListInterests(ctx context.Context) ([]models.Interest, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course, interestIDs []int64) error
}

// UserStore manages user accounts and profiles.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (*models.User, error)
}

// Repository bundles every store the API needs.
type Repository interface {
	AssociationStore
	CatalogStore
	UserStore
}
