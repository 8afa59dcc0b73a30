package database

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/giannis84/course-catalog/internal/models"
	"github.com/stretchr/testify/require"
)

func seededMemoryStore() *MemoryStore {
	s := NewMemoryStore()
	s.SeedInterest(models.Interest{ID: 1, Name: "Guitar", Category: "Instruments"})
	s.SeedInterest(models.Interest{ID: 2, Name: "Piano", Category: "Instruments"})
	s.SeedInterest(models.Interest{ID: 6, Name: "Jazz", Category: "Genres"})
	s.SeedInterest(models.Interest{ID: 7, Name: "Rock", Category: "Genres"})
	s.SeedUser(models.User{ID: 1, Username: "alice", Role: models.RoleStudent})
	s.SeedCourse(models.Course{ID: 10, Name: "Jazz Guitar"})
	return s
}

func interestIDs(in []models.Interest) []int64 {
	ids := make([]int64, 0, len(in))
	for _, i := range in {
		ids = append(ids, i.ID)
	}
	return ids
}

func TestMemoryStore_ReplaceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := seededMemoryStore()

	require.NoError(t, s.ReplaceUserInterests(ctx, 1, []int64{7, 6, 6}))
	first, err := s.GetUserInterests(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceUserInterests(ctx, 1, []int64{7, 6, 6}))
	second, err := s.GetUserInterests(ctx, 1)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, []int64{6, 7}, interestIDs(second))
}

func TestMemoryStore_ReplaceSubstitutesWholeSet(t *testing.T) {
	ctx := context.Background()
	s := seededMemoryStore()

	require.NoError(t, s.ReplaceCourseInterests(ctx, 10, []int64{1, 6}))
	require.NoError(t, s.ReplaceCourseInterests(ctx, 10, []int64{2}))

	got, err := s.GetCourseInterests(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, interestIDs(got))

	require.NoError(t, s.ReplaceCourseInterests(ctx, 10, []int64{}))
	got, err = s.GetCourseInterests(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestMemoryStore_FailedReplaceKeepsPreviousSet(t *testing.T) {
	ctx := context.Background()
	s := seededMemoryStore()
	require.NoError(t, s.ReplaceUserInterests(ctx, 1, []int64{1, 2}))

	s.ReplaceFault = func(side Side, ownerID int64) error {
		return errors.New("disk full")
	}
	err := s.ReplaceUserInterests(ctx, 1, []int64{6, 7})
	require.ErrorIs(t, err, ErrStorageUnavailable)

	got, err := s.GetUserInterests(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, interestIDs(got))
}

func TestMemoryStore_ReplaceErrors(t *testing.T) {
	ctx := context.Background()
	s := seededMemoryStore()
	require.NoError(t, s.ReplaceUserInterests(ctx, 1, []int64{1}))

	err := s.ReplaceUserInterests(ctx, 1, []int64{1, 999})
	require.ErrorIs(t, err, ErrConstraintViolation)

	got, err := s.GetUserInterests(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, interestIDs(got))

	require.ErrorIs(t, s.ReplaceUserInterests(ctx, 404, []int64{1}), ErrNotFound)
	require.ErrorIs(t, s.ReplaceCourseInterests(ctx, 404, []int64{1}), ErrNotFound)
}

func TestMemoryStore_ReadsAreOrderedByCategoryThenName(t *testing.T) {
	ctx := context.Background()
	s := seededMemoryStore()
	require.NoError(t, s.ReplaceCourseInterests(ctx, 10, []int64{2, 7, 1, 6}))

	got, err := s.GetCourseInterests(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []int64{6, 7, 1, 2}, interestIDs(got))

	all, err := s.ListInterests(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{6, 7, 1, 2}, interestIDs(all))

	bulk, err := s.GetCourseInterestsBulk(ctx, []int64{10, 11})
	require.NoError(t, err)
	require.Equal(t, map[int64][]models.InterestRef{
		10: {{ID: 6, Name: "Jazz"}, {ID: 7, Name: "Rock"}, {ID: 1, Name: "Guitar"}, {ID: 2, Name: "Piano"}},
	}, bulk)
}

func TestMemoryStore_ConcurrentReplacesEndInOneInput(t *testing.T) {
	ctx := context.Background()
	s := seededMemoryStore()
	inputs := [][]int64{{1, 2}, {6, 7}}

	var wg sync.WaitGroup
	for _, in := range inputs {
		wg.Add(1)
		go func(ids []int64) {
			defer wg.Done()
			_ = s.ReplaceUserInterests(ctx, 1, ids)
		}(in)
	}
	wg.Wait()

	got, err := s.GetUserInterests(ctx, 1)
	require.NoError(t, err)
	ids := interestIDs(got)
	require.Contains(t, [][]int64{{1, 2}, {6, 7}}, ids)
}

func TestMemoryStore_CallCountsAndReadFaults(t *testing.T) {
	ctx := context.Background()
	s := seededMemoryStore()

	_, _ = s.ListCourses(ctx)
	_, _ = s.ListCourses(ctx)
	require.Equal(t, 2, s.Calls("ListCourses"))
	require.Zero(t, s.Calls("GetCourseInterestsBulk"))

	s.ReadFault["GetUserInterests"] = ErrStorageUnavailable
	_, err := s.GetUserInterests(ctx, 1)
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.Equal(t, 1, s.Calls("GetUserInterests"))
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	email := "bob@example.com"

	bob := &models.User{Username: "bob", Email: &email, Role: models.RoleStudent}
	require.NoError(t, s.CreateUser(ctx, bob))
	require.Equal(t, int64(1), bob.ID)

	err := s.CreateUser(ctx, &models.User{Username: "bob"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	err = s.CreateUser(ctx, &models.User{Username: "bobby", Email: &email})
	require.ErrorIs(t, err, ErrEmailTaken)

	dark := "dark"
	updated, err := s.UpdateProfile(ctx, bob.ID, models.ProfileUpdate{ThemePref: &dark})
	require.NoError(t, err)
	require.Equal(t, "dark", *updated.ThemePref)

	updated, err = s.UpdateProfile(ctx, bob.ID, models.ProfileUpdate{})
	require.NoError(t, err)
	require.Equal(t, "dark", *updated.ThemePref, "nil theme keeps the stored value")

	_, err = s.GetUserByID(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}
