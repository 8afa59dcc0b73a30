package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/giannis84/course-catalog/internal/metrics"
	"github.com/giannis84/course-catalog/internal/models"
)

const courseColumns = `id, name, description, category, price, reviews, review_count, picture`

// ListInterests returns the whole interest catalog grouped by category, then name.
func (r *PostgresRepository) ListInterests(ctx context.Context) (_ []models.Interest, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("select", "interests", start, err) }(time.Now())

	const query = `SELECT id, name, category FROM interests ORDER BY category, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError("querying interests", err)
	}
	defer rows.Close()

	interests, err := scanInterests(rows)
	if err != nil {
		return nil, classifyError("reading interests", err)
	}
	return interests, nil
}

// ListCourses returns every course ordered by ascending id.
func (r *PostgresRepository) ListCourses(ctx context.Context) (_ []*models.Course, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("select", "courses", start, err) }(time.Now())

	const query = `SELECT ` + courseColumns + ` FROM courses ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyError("querying courses", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("iterating courses", err)
	}
	return courses, nil
}

func (r *PostgresRepository) GetCourse(ctx context.Context, courseID int64) (_ *models.Course, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("select_one", "courses", start, err) }(time.Now())

	const query = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, courseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotFound)
	}
	if err != nil {
		return nil, classifyError("querying course", err)
	}
	return course, nil
}

// CreateCourse inserts the course and, in the same transaction, links it to interestIDs.
// On success course.ID is set to the generated id.
func (r *PostgresRepository) CreateCourse(ctx context.Context, course *models.Course, interestIDs []int64) (err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("insert", "courses", start, err) }(time.Now())

	const query = `
		INSERT INTO courses (name, description, category, price, reviews, review_count, picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	ids := NormalizeInterestIDs(interestIDs)

	err = WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		var id int64
		err := tx.QueryRowContext(ctx, query,
			course.Name, course.Description, course.Category,
			course.Price, course.Reviews, course.ReviewCount, course.Picture,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("inserting course: %w", err)
		}
		if err := insertAssociations(ctx, tx, CourseSide, id, ids); err != nil {
			return err
		}
		course.ID = id
		return nil
	})
	if err != nil {
		return classifyError("creating course", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCourse scans a single row of courseColumns into a Course.
func scanCourse(row rowScanner) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Category,
		&c.Price, &c.Reviews, &c.ReviewCount, &c.Picture,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
