package database

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/giannis84/course-catalog/internal/models"
)

// MemoryStore is an in-memory Repository intended for unit tests only.
// It counts calls per method and can inject a fault into replaces after the new set has been
// staged, which lets tests check that a failed replace leaves the previous set untouched.
type MemoryStore struct {
	mu sync.RWMutex

	interests       map[int64]models.Interest
	courses         map[int64]*models.Course
	users           map[int64]*models.User
	userInterests   map[int64]map[int64]struct{}
	courseInterests map[int64]map[int64]struct{}
	nextCourseID    int64
	nextUserID      int64

	calls map[string]int

	// ReplaceFault, when set, runs after a replace has staged its rows; a non-nil error aborts it.
	ReplaceFault func(side Side, ownerID int64) error
	// ReadFault, when set, is returned by the named read method ("GetUserInterests", ...).
	ReadFault map[string]error
}

// NewMemoryStore returns an empty MemoryStore for testing.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		interests:       make(map[int64]models.Interest),
		courses:         make(map[int64]*models.Course),
		users:           make(map[int64]*models.User),
		userInterests:   make(map[int64]map[int64]struct{}),
		courseInterests: make(map[int64]map[int64]struct{}),
		calls:           make(map[string]int),
		ReadFault:       make(map[string]error),
	}
}

var _ Repository = (*MemoryStore)(nil)

// Calls returns how many times the named method has been invoked.
func (s *MemoryStore) Calls(method string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[method]
}

// SeedInterest adds an interest to the catalog.
func (s *MemoryStore) SeedInterest(in models.Interest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interests[in.ID] = in
}

// SeedCourse adds a course with a fixed id.
func (s *MemoryStore) SeedCourse(c models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = &c
	if c.ID > s.nextCourseID {
		s.nextCourseID = c.ID
	}
}

// SeedUser adds a user with a fixed id.
func (s *MemoryStore) SeedUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
	if u.ID > s.nextUserID {
		s.nextUserID = u.ID
	}
}

func (s *MemoryStore) track(method string) error {
	s.calls[method]++
	return s.ReadFault[method]
}

func (s *MemoryStore) ReplaceUserInterests(_ context.Context, userID int64, interestIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["ReplaceUserInterests"]++

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return s.replaceLocked(UserSide, s.userInterests, userID, interestIDs)
}

func (s *MemoryStore) ReplaceCourseInterests(_ context.Context, courseID int64, interestIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["ReplaceCourseInterests"]++

	if _, ok := s.courses[courseID]; !ok {
		return fmt.Errorf("course %d: %w", courseID, ErrNotFound)
	}
	return s.replaceLocked(CourseSide, s.courseInterests, courseID, interestIDs)
}

// replaceLocked builds the new set aside and swaps it in only when every step succeeded.
func (s *MemoryStore) replaceLocked(side Side, table map[int64]map[int64]struct{}, ownerID int64, interestIDs []int64) error {
	staged := make(map[int64]struct{}, len(interestIDs))
	for _, id := range NormalizeInterestIDs(interestIDs) {
		if _, ok := s.interests[id]; !ok {
			return fmt.Errorf("replacing %s interests: %w: interest %d does not exist", side.Name, ErrConstraintViolation, id)
		}
		staged[id] = struct{}{}
	}
	if s.ReplaceFault != nil {
		if err := s.ReplaceFault(side, ownerID); err != nil {
			return fmt.Errorf("replacing %s interests: %w: %w", side.Name, ErrStorageUnavailable, err)
		}
	}
	table[ownerID] = staged
	return nil
}

func (s *MemoryStore) GetUserInterests(_ context.Context, userID int64) ([]models.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.track("GetUserInterests"); err != nil {
		return nil, err
	}
	return s.sortedInterestsLocked(s.userInterests[userID]), nil
}

func (s *MemoryStore) GetCourseInterests(_ context.Context, courseID int64) ([]models.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.track("GetCourseInterests"); err != nil {
		return nil, err
	}
	return s.sortedInterestsLocked(s.courseInterests[courseID]), nil
}

func (s *MemoryStore) GetCourseInterestsBulk(_ context.Context, courseIDs []int64) (map[int64][]models.InterestRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.track("GetCourseInterestsBulk"); err != nil {
		return nil, err
	}

	result := make(map[int64][]models.InterestRef)
	for _, courseID := range courseIDs {
		set := s.courseInterests[courseID]
		if len(set) == 0 {
			continue
		}
		for _, in := range s.sortedInterestsLocked(set) {
			result[courseID] = append(result[courseID], in.Ref())
		}
	}
	return result, nil
}

func (s *MemoryStore) sortedInterestsLocked(set map[int64]struct{}) []models.Interest {
	result := make([]models.Interest, 0, len(set))
	for id := range set {
		result = append(result, s.interests[id])
	}
	sortInterests(result)
	return result
}

func sortInterests(interests []models.Interest) {
	slices.SortFunc(interests, func(a, b models.Interest) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Name, b.Name))
	})
}

func (s *MemoryStore) ListInterests(_ context.Context) ([]models.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.track("ListInterests"); err != nil {
		return nil, err
	}

	result := make([]models.Interest, 0, len(s.interests))
	for _, in := range s.interests {
		result = append(result, in)
	}
	sortInterests(result)
	return result, nil
}

func (s *MemoryStore) ListCourses(_ context.Context) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.track("ListCourses"); err != nil {
		return nil, err
	}

	result := make([]*models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		cp := *c
		result = append(result, &cp)
	}
	slices.SortFunc(result, func(a, b *models.Course) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

func (s *MemoryStore) GetCourse(_ context.Context, courseID int64) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.track("GetCourse"); err != nil {
		return nil, err
	}

	c, ok := s.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) CreateCourse(_ context.Context, course *models.Course, interestIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["CreateCourse"]++

	ids := NormalizeInterestIDs(interestIDs)
	for _, id := range ids {
		if _, ok := s.interests[id]; !ok {
			return fmt.Errorf("creating course: %w: interest %d does not exist", ErrConstraintViolation, id)
		}
	}

	s.nextCourseID++
	course.ID = s.nextCourseID
	cp := *course
	s.courses[course.ID] = &cp

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.courseInterests[course.ID] = set
	return nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["CreateUser"]++

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
		if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
			return ErrEmailTaken
		}
	}

	s.nextUserID++
	now := time.Now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.track("GetUserByUsername"); err != nil {
		return nil, err
	}

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
}

func (s *MemoryStore) GetUserByID(_ context.Context, userID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.track("GetUserByID"); err != nil {
		return nil, err
	}

	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, userID int64, update models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["UpdateProfile"]++

	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	u.DisplayName = update.DisplayName
	u.Bio = update.Bio
	u.AvatarURL = update.AvatarURL
	if update.ThemePref != nil {
		u.ThemePref = update.ThemePref
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}
