package handlers

import (
	"context"
	"strings"

	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/logging"
	"github.com/giannis84/course-catalog/internal/matching"
	"github.com/giannis84/course-catalog/internal/metrics"
	"github.com/giannis84/course-catalog/internal/models"
)

// CreateCourseRequest is the body of the create-course endpoint.
type CreateCourseRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,max=2000"`
	Category    string   `json:"category" validate:"required,max=100"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Reviews     float64  `json:"reviews" validate:"gte=0,lte=5"`
	ReviewCount int      `json:"reviewCount" validate:"gte=0"`
	Picture     string   `json:"picture" validate:"max=255"`
	InterestIDs []int64  `json:"interestIds" validate:"omitempty,dive,gt=0,lte=2147483647"`
}

// ListCourses returns every course annotated for the given user. A nil userID means an anonymous
// caller.
//
// The number of store reads does not depend on the number of courses: one for the courses, one
// for the user's interests and one bulk read of the course interests. The last two are skipped
// when there is nobody to personalize for. Personalization is best effort; if either of its
// reads fails the courses are still returned, all marked as not matching.
func ListCourses(ctx context.Context, catalog database.CatalogStore, assoc database.AssociationStore, userID *int64) ([]*models.EnrichedCourse, error) {
	courses, err := catalog.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	userSet := loadUserSet(ctx, assoc, userID)

	var courseInterests map[int64][]models.InterestRef
	if len(userSet) > 0 && len(courses) > 0 {
		ids := make([]int64, len(courses))
		for i, c := range courses {
			ids[i] = c.ID
		}
		courseInterests, err = assoc.GetCourseInterestsBulk(ctx, ids)
		if err != nil {
			metrics.PersonalizationDegraded.Inc()
			logging.Log(ctx).Layer("handlers").Op("listCourses").User(*userID).Int("courses", len(ids)).Err(err).
				Warn("loading course interests failed, returning courses without matches")
			userSet = nil
		}
	}

	enriched := make([]*models.EnrichedCourse, len(courses))
	for i, c := range courses {
		res := matching.Compute(userSet, courseInterests[c.ID])
		enriched[i] = &models.EnrichedCourse{
			Course:            *c,
			IsForYou:          res.IsForYou,
			MatchingInterests: res.MatchingNames,
		}
	}
	return enriched, nil
}

// loadUserSet returns the user's interest ids, or an empty set for anonymous callers and on failure.
func loadUserSet(ctx context.Context, assoc database.AssociationStore, userID *int64) matching.Set {
	if userID == nil {
		return nil
	}

	interests, err := assoc.GetUserInterests(ctx, *userID)
	if err != nil {
		metrics.PersonalizationDegraded.Inc()
		logging.Log(ctx).Layer("handlers").Op("listCourses").User(*userID).Err(err).
			Warn("loading user interests failed, returning courses without matches")
		return nil
	}

	set := make(matching.Set, len(interests))
	for _, in := range interests {
		set[in.ID] = struct{}{}
	}
	return set
}

func GetCourse(ctx context.Context, catalog database.CatalogStore, courseID int64) (*models.Course, error) {
	if err := validate(checkPositiveID("courseId", courseID)); err != nil {
		return nil, err
	}
	return catalog.GetCourse(ctx, courseID)
}

// CreateCourse validates the request and stores the course together with its interest links.
func CreateCourse(ctx context.Context, catalog database.CatalogStore, req *CreateCourseRequest) (*models.Course, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	req.Picture = strings.TrimSpace(req.Picture)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		Reviews:     req.Reviews,
		ReviewCount: req.ReviewCount,
		Picture:     req.Picture,
	}
	if course.Picture == "" {
		course.Picture = models.DefaultCoursePicture
	}

	if err := catalog.CreateCourse(ctx, course, req.InterestIDs); err != nil {
		logging.Log(ctx).Layer("handlers").Op("createCourse").Str("name", course.Name).Err(err).
			Warn("creating course failed")
		return nil, err
	}

	logging.Log(ctx).Layer("handlers").Op("createCourse").Course(course.ID).
		Info("course created")
	return course, nil
}
