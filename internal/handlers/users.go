package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/logging"
	"github.com/giannis84/course-catalog/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

var allowedThemes = map[string]bool{"dark": true, "light": true}

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
	ThemePref   *string `json:"themePref"`
}

// Register creates a student account. The display name starts out as the username.
func Register(ctx context.Context, users database.UserStore, req *RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = trimmedOrNil(req.Email)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	displayName := req.Username
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		DisplayName:  &displayName,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		logging.Log(ctx).Layer("handlers").Op("register").Str("username", req.Username).Err(err).
			Warn("creating user failed")
		return nil, err
	}

	logging.Log(ctx).Layer("handlers").Op("register").User(user.ID).Info("user registered")
	return user, nil
}

// Login checks the credentials and returns the matching user.
func Login(ctx context.Context, users database.UserStore, req *LoginRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := users.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logging.Log(ctx).Layer("handlers").Op("login").User(user.ID).Warn("password mismatch")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func GetProfile(ctx context.Context, users database.UserStore, userID int64) (*models.User, error) {
	if err := validate(checkPositiveID("userId", userID)); err != nil {
		return nil, err
	}
	return users.GetUserByID(ctx, userID)
}

// UpdateProfile trims the text fields; a blank or missing value clears the field. An unsupported
// theme is ignored and the stored one kept.
func UpdateProfile(ctx context.Context, users database.UserStore, userID int64, req *UpdateProfileRequest) (*models.User, error) {
	update := models.ProfileUpdate{
		DisplayName: trimmedOrNil(req.DisplayName),
		Bio:         trimmedOrNil(req.Bio),
		AvatarURL:   trimmedOrNil(req.AvatarURL),
	}
	if req.ThemePref != nil && allowedThemes[*req.ThemePref] {
		update.ThemePref = req.ThemePref
	}

	err := validate(
		checkPositiveID("userId", userID),
		func() string { return checkMaxLength("displayName", update.DisplayName, maxStringLength) },
		func() string { return checkMaxLength("bio", update.Bio, 2000) },
		func() string { return checkMaxLength("avatarUrl", update.AvatarURL, 2048) },
	)
	if err != nil {
		return nil, err
	}

	user, err := users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	logging.Log(ctx).Layer("handlers").Op("updateProfile").User(userID).Info("profile updated")
	return user, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
