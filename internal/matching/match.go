// Package matching decides whether a course fits a user's declared interests.
package matching

import "github.com/giannis84/course-catalog/internal/models"

// Set is a user's declared interest ids.
type Set map[int64]struct{}

func NewSet(ids ...int64) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Result is the per-course outcome shown to the user. It is derived on every read and never stored.
type Result struct {
	IsForYou      bool
	MatchingNames []string
}

// Compute intersects the course's interests with the user's set. MatchingNames follows the order of
// courseInterests and is never nil.
func Compute(user Set, courseInterests []models.InterestRef) Result {
	names := []string{}
	if len(user) == 0 {
		return Result{MatchingNames: names}
	}
	for _, in := range courseInterests {
		if user.Contains(in.ID) {
			names = append(names, in.Name)
		}
	}
	return Result{IsForYou: len(names) > 0, MatchingNames: names}
}
