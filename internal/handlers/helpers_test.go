package handlers

import (
	"context"
	"io"
	"log/slog"

	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/logging"
	"github.com/giannis84/course-catalog/internal/models"
)

// testContext returns a context with a discarding logger for tests.
func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return logging.NewContextWithLogger(context.Background(), logger)
}

// newCatalogStore seeds the interests and courses used across the handler tests.
func newCatalogStore() *database.MemoryStore {
	s := database.NewMemoryStore()
	for _, in := range []models.Interest{
		{ID: 1, Name: "Guitar", Category: "Instruments"},
		{ID: 2, Name: "Piano", Category: "Instruments"},
		{ID: 6, Name: "Jazz", Category: "Genres"},
		{ID: 7, Name: "Rock", Category: "Genres"},
		{ID: 10, Name: "Harmony", Category: "Theory"},
	} {
		s.SeedInterest(in)
	}
	s.SeedCourse(models.Course{ID: 1, Name: "Jazz Piano", Category: "Piano", Picture: "🎹"})
	s.SeedCourse(models.Course{ID: 2, Name: "Rock Guitar", Category: "Guitar", Picture: "🎸"})
	s.SeedCourse(models.Course{ID: 3, Name: "Music Theory", Category: "Theory", Picture: "🎼"})
	s.SeedUser(models.User{ID: 1, Username: "alice", Role: models.RoleStudent})
	return s
}

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }
func strPtr(s string) *string       { return &s }
