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

const userColumns = `id, username, email, password_hash, role, display_name, bio, avatar_url, theme_pref, created_at, updated_at`

// CreateUser inserts the user and fills in the generated id and timestamps.
// A taken username or email yields ErrUsernameTaken or ErrEmailTaken.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) (err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("insert", "users", start, err) }(time.Now())

	const query = `
		INSERT INTO users (username, email, password_hash, role, display_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.DisplayName,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			if constraint == "users_email_key" {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return classifyError("inserting user", err)
	}
	return nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (_ *models.User, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("select_one", "users", start, err) }(time.Now())

	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, classifyError("querying user", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID int64) (_ *models.User, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("select_one", "users", start, err) }(time.Now())

	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, classifyError("querying user", err)
	}
	return user, nil
}

// UpdateProfile overwrites display name, bio and avatar, and the theme only when one is given.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (_ *models.User, err error) {
	defer func(start time.Time) { metrics.RecordDBQuery("update", "users", start, err) }(time.Now())

	const query = `
		UPDATE users
		SET display_name = $2,
		    bio = $3,
		    avatar_url = $4,
		    theme_pref = COALESCE($5, theme_pref),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query,
		userID, update.DisplayName, update.Bio, update.AvatarURL, update.ThemePref,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, classifyError("updating profile", err)
	}
	return user, nil
}

// scanUser scans a single row of userColumns into a User.
func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var email, displayName, bio, avatarURL, themePref sql.NullString

	err := row.Scan(
		&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role,
		&displayName, &bio, &avatarURL, &themePref,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Email = nullableString(email)
	u.DisplayName = nullableString(displayName)
	u.Bio = nullableString(bio)
	u.AvatarURL = nullableString(avatarURL)
	u.ThemePref = nullableString(themePref)
	return &u, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
