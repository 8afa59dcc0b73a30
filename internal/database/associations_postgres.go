package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/giannis84/course-catalog/internal/metrics"
	"github.com/giannis84/course-catalog/internal/models"
	"github.com/lib/pq"
)

// Side describes one owner side of the interest associations.
type Side struct {
	Name        string
	OwnerTable  string
	AssocTable  string
	OwnerColumn string
}

var (
	UserSide   = Side{Name: "user", OwnerTable: "users", AssocTable: "user_interests", OwnerColumn: "user_id"}
	CourseSide = Side{Name: "course", OwnerTable: "courses", AssocTable: "course_interests", OwnerColumn: "course_id"}
)

// Table and column names come from the two Side values above, never from input.

func (s Side) lockOwnerQuery() string {
	return fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR UPDATE`, s.OwnerTable)
}

func (s Side) deleteQuery() string {
	return fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, s.AssocTable, s.OwnerColumn)
}

func (s Side) insertQuery() string {
	return fmt.Sprintf(`INSERT INTO %s (%s, interest_id) SELECT $1, unnest($2::int[])`, s.AssocTable, s.OwnerColumn)
}

func (s Side) selectQuery() string {
	return fmt.Sprintf(`
		SELECT i.id, i.name, i.category
		FROM interests i
		INNER JOIN %s a ON a.interest_id = i.id
		WHERE a.%s = $1
		ORDER BY i.category, i.name`, s.AssocTable, s.OwnerColumn)
}

// NormalizeInterestIDs returns the ids deduplicated and sorted ascending. This is the exact set a
// replace stores. A nil input yields an empty slice.
func NormalizeInterestIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func (r *PostgresRepository) ReplaceUserInterests(ctx context.Context, userID int64, interestIDs []int64) error {
	return r.replaceAssociations(ctx, UserSide, userID, interestIDs)
}

func (r *PostgresRepository) ReplaceCourseInterests(ctx context.Context, courseID int64, interestIDs []int64) error {
	return r.replaceAssociations(ctx, CourseSide, courseID, interestIDs)
}

func (r *PostgresRepository) GetUserInterests(ctx context.Context, userID int64) ([]models.Interest, error) {
	return r.getAssociations(ctx, UserSide, userID)
}

func (r *PostgresRepository) GetCourseInterests(ctx context.Context, courseID int64) ([]models.Interest, error) {
	return r.getAssociations(ctx, CourseSide, courseID)
}

// replaceAssociations swaps the owner's association rows inside one transaction. The owner row is
// locked first, so two replaces for the same owner serialize in PostgreSQL and the final state is
// exactly one of the inputs. Any failure rolls back, leaving the previous set in place.
func (r *PostgresRepository) replaceAssociations(ctx context.Context, side Side, ownerID int64, interestIDs []int64) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("replace", side.AssocTable, start, err)
		metrics.RecordReplacement(side.Name, err)
	}()

	ids := NormalizeInterestIDs(interestIDs)

	err = WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		if err := lockOwner(ctx, tx, side, ownerID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, side.deleteQuery(), ownerID); err != nil {
			return fmt.Errorf("deleting %s interests: %w", side.Name, err)
		}
		return insertAssociations(ctx, tx, side, ownerID, ids)
	})
	if err != nil {
		return classifyError(fmt.Sprintf("replacing %s interests", side.Name), err)
	}
	return nil
}

func lockOwner(ctx context.Context, tx DBTX, side Side, ownerID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, side.lockOwnerQuery(), ownerID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", side.Name, ownerID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("locking %s: %w", side.Name, err)
	}
	return nil
}

// insertAssociations writes all pairs with a single statement; ids must already be normalized.
func insertAssociations(ctx context.Context, tx DBTX, side Side, ownerID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, side.insertQuery(), ownerID, pq.Array(ids)); err != nil {
		return fmt.Errorf("inserting %s interests: %w", side.Name, err)
	}
	return nil
}

func (r *PostgresRepository) getAssociations(ctx context.Context, side Side, ownerID int64) (_ []models.Interest, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("select", side.AssocTable, start, err) }(time.Now())

	rows, err := r.db.QueryContext(ctx, side.selectQuery(), ownerID)
	if err != nil {
		return nil, classifyError(fmt.Sprintf("querying %s interests", side.Name), err)
	}
	defer rows.Close()

	interests, err := scanInterests(rows)
	if err != nil {
		return nil, classifyError(fmt.Sprintf("reading %s interests", side.Name), err)
	}
	return interests, nil
}

func (r *PostgresRepository) GetCourseInterestsBulk(ctx context.Context, courseIDs []int64) (_ map[int64][]models.InterestRef, err error) {
	result := make(map[int64][]models.InterestRef)
	if len(courseIDs) == 0 {
		return result, nil
	}
	defer func(start time.Time) { metrics.RecordDBQuery("select_bulk", CourseSide.AssocTable, start, err) }(time.Now())

	const query = `
		SELECT ci.course_id, i.id, i.name
		FROM course_interests ci
		INNER JOIN interests i ON i.id = ci.interest_id
		WHERE ci.course_id = ANY($1::int[])
		ORDER BY ci.course_id, i.category, i.name`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(courseIDs))
	if err != nil {
		return nil, classifyError("querying course interests in bulk", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID int64
		var ref models.InterestRef
		if err := rows.Scan(&courseID, &ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scanning course interest row: %w", err)
		}
		result[courseID] = append(result[courseID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("iterating course interests", err)
	}
	return result, nil
}

// scanInterests drains rows of (id, name, category) into a non-nil slice.
func scanInterests(rows *sql.Rows) ([]models.Interest, error) {
	interests := []models.Interest{}
	for rows.Next() {
		var in models.Interest
		if err := rows.Scan(&in.ID, &in.Name, &in.Category); err != nil {
			return nil, fmt.Errorf("scanning interest row: %w", err)
		}
		interests = append(interests, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return interests, nil
}
