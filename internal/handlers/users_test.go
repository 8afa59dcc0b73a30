package handlers

import (
	"errors"
	"strings"
	"testing"

	"github.com/giannis84/course-catalog/internal/database"
	"github.com/giannis84/course-catalog/internal/models"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		req        RegisterRequest
		seed       *RegisterRequest
		wantValErr bool
		wantErr    error
		errSubstr  string
	}{
		{
			name: "valid registration",
			req:  RegisterRequest{Username: " bob ", Password: "secret1", Email: strPtr("bob@example.com")},
		},
		{
			name: "blank email is treated as absent",
			req:  RegisterRequest{Username: "carol", Password: "secret1", Email: strPtr("  ")},
		},
		{
			name:       "short username",
			req:        RegisterRequest{Username: "ab", Password: "secret1"},
			wantValErr: true,
			errSubstr:  "username must be at least 3 characters long",
		},
		{
			name:       "short password",
			req:        RegisterRequest{Username: "dave", Password: "123"},
			wantValErr: true,
			errSubstr:  "password must be at least 6 characters long",
		},
		{
			name:       "invalid email",
			req:        RegisterRequest{Username: "erin", Password: "secret1", Email: strPtr("not-an-email")},
			wantValErr: true,
			errSubstr:  "email must be a valid email address",
		},
		{
			name:    "duplicate username",
			seed:    &RegisterRequest{Username: "frank", Password: "secret1"},
			req:     RegisterRequest{Username: "frank", Password: "secret2"},
			wantErr: database.ErrUsernameTaken,
		},
		{
			name:    "duplicate email",
			seed:    &RegisterRequest{Username: "gina", Password: "secret1", Email: strPtr("g@example.com")},
			req:     RegisterRequest{Username: "gina2", Password: "secret1", Email: strPtr("g@example.com")},
			wantErr: database.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext()
			store := database.NewMemoryStore()
			if tt.seed != nil {
				if _, err := Register(ctx, store, tt.seed); err != nil {
					t.Fatalf("seed setup failed: %v", err)
				}
			}

			user, err := Register(ctx, store, &tt.req)

			switch {
			case tt.wantValErr:
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected *ValidationError, got %T: %v", err, err)
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("expected error to contain %q, got: %v", tt.errSubstr, err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got: %v", tt.wantErr, err)
				}
				if !errors.Is(err, database.ErrAlreadyExists) {
					t.Errorf("expected error to wrap ErrAlreadyExists, got: %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if user.ID == 0 || user.Role != models.RoleStudent {
					t.Errorf("unexpected user: %+v", user)
				}
				if strings.TrimSpace(user.Username) != user.Username {
					t.Errorf("expected trimmed username, got %q", user.Username)
				}
				if user.DisplayName == nil || *user.DisplayName != user.Username {
					t.Errorf("expected display name to default to username, got %v", user.DisplayName)
				}
				if user.PasswordHash == "" || user.PasswordHash == tt.req.Password {
					t.Error("expected password to be hashed")
				}
			}
		})
	}
}

func TestRegister_BlankEmailStoredAsNil(t *testing.T) {
	user, err := Register(testContext(), database.NewMemoryStore(),
		&RegisterRequest{Username: "carol", Password: "secret1", Email: strPtr("  ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != nil {
		t.Errorf("expected nil email, got %q", *user.Email)
	}
}

func TestLogin(t *testing.T) {
	ctx := testContext()
	store := database.NewMemoryStore()
	registered, err := Register(ctx, store, &RegisterRequest{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("seed setup failed: %v", err)
	}

	tests := []struct {
		name     string
		req      LoginRequest
		wantErr  error
		wantUser bool
	}{
		{name: "valid credentials", req: LoginRequest{Username: "alice", Password: "correct-horse"}, wantUser: true},
		{name: "wrong password", req: LoginRequest{Username: "alice", Password: "battery"}, wantErr: ErrInvalidCredentials},
		{name: "unknown user", req: LoginRequest{Username: "mallory", Password: "whatever"}, wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := Login(ctx, store, &tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got: %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != registered.ID {
				t.Errorf("expected user %d, got %d", registered.ID, user.ID)
			}
		})
	}

	t.Run("missing password is invalid input", func(t *testing.T) {
		var valErr *ValidationError
		_, err := Login(ctx, store, &LoginRequest{Username: "alice"})
		if !errors.As(err, &valErr) {
			t.Errorf("expected *ValidationError, got: %v", err)
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := testContext()
	store := database.NewMemoryStore()
	store.SeedUser(models.User{ID: 1, Username: "alice", DisplayName: strPtr("alice"), ThemePref: strPtr("light")})

	user, err := UpdateProfile(ctx, store, 1, &UpdateProfileRequest{
		DisplayName: strPtr("  Alice A.  "),
		Bio:         strPtr("   "),
		ThemePref:   strPtr("dark"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *user.DisplayName != "Alice A." {
		t.Errorf("expected trimmed display name, got %q", *user.DisplayName)
	}
	if user.Bio != nil {
		t.Errorf("expected blank bio to be cleared, got %q", *user.Bio)
	}
	if *user.ThemePref != "dark" {
		t.Errorf("expected theme dark, got %q", *user.ThemePref)
	}

	user, err = UpdateProfile(ctx, store, 1, &UpdateProfileRequest{ThemePref: strPtr("neon")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *user.ThemePref != "dark" {
		t.Errorf("unsupported theme must keep the stored value, got %q", *user.ThemePref)
	}

	_, err = UpdateProfile(ctx, store, 1, &UpdateProfileRequest{DisplayName: strPtr(strings.Repeat("x", 300))})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected *ValidationError for long display name, got: %v", err)
	}

	if _, err := UpdateProfile(ctx, store, 404, &UpdateProfileRequest{}); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	store := database.NewMemoryStore()
	store.SeedUser(models.User{ID: 1, Username: "alice"})

	user, err := GetProfile(testContext(), store, 1)
	if err != nil || user.Username != "alice" {
		t.Errorf("unexpected result: %+v, %v", user, err)
	}
	if _, err := GetProfile(testContext(), store, 2); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}
