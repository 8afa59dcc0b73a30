// User model definitions

package models

import "time"

const RoleStudent = "student"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	DisplayName  *string   `json:"displayName"`
	Bio          *string   `json:"bio"`
	AvatarURL    *string   `json:"avatarUrl"`
	ThemePref    *string   `json:"themePref"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the editable profile columns. A nil ThemePref keeps the stored value;
// the other fields overwrite, nil clearing them.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	ThemePref   *string
}
