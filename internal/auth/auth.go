package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

// Config controls token verification and issuance.
//
// When Secret is non-empty only HS256-signed tokens are accepted and issued.
// When Secret is empty and AllowUnsignedTokens is set, only unsigned tokens (alg=none) are
// accepted and issued; this is for local development and testing. With neither, every token
// is rejected.
type Config struct {
	Secret              string
	AllowUnsignedTokens bool
	TokenTTL            time.Duration
}

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	UserID int64
	Role   string
}

type contextKey struct{}

var (
	errMissingHeader   = errors.New("missing or malformed Authorization header")
	errNoSigningConfig = errors.New("no jwt secret configured and unsigned tokens are disabled")
)

// JWTMiddleware rejects requests without a valid bearer token and places the caller's Identity
// into the request context.
func JWTMiddleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractBearerToken(r)
			if !ok {
				writeUnauthorized(w, errMissingHeader)
				return
			}
			id, err := parseIdentity(tokenString, cfg)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
		})
	}
}

// OptionalJWT lets anonymous requests through unchanged. A request that does carry an
// Authorization header must carry a valid token.
func OptionalJWT(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			JWTMiddleware(cfg)(next).ServeHTTP(w, r)
		})
	}
}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the Identity stored by JWTMiddleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// UserIDFromContext returns the authenticated user id, or false for anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}

// IssueToken mints a token for the user that expires after cfg.TokenTTL.
func IssueToken(cfg Config, userID int64, role string, now time.Time) (string, error) {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	if cfg.Secret != "" {
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	}
	if !cfg.AllowUnsignedTokens {
		return "", errNoSigningConfig
	}
	return jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
}

// extractBearerToken pulls the token from "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// parseToken validates the JWT string. With a secret HS256 is required, otherwise only alg=none
// is accepted and only when unsigned tokens are allowed. Expiry is checked in both modes.
func parseToken(tokenString string, cfg Config) (jwt.MapClaims, error) {
	method := jwt.SigningMethodHS256.Alg()
	var key any = []byte(cfg.Secret)
	if cfg.Secret == "" {
		if !cfg.AllowUnsignedTokens {
			return nil, errNoSigningConfig
		}
		method = jwt.SigningMethodNone.Alg()
		key = jwt.UnsafeAllowNoneSignatureType
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{method}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func parseIdentity(tokenString string, cfg Config) (Identity, error) {
	claims, err := parseToken(tokenString, cfg)
	if err != nil {
		return Identity{}, err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, errors.New("token missing sub claim")
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, errors.New("token sub claim is not a user id")
	}

	role, _ := claims["role"].(string)
	return Identity{UserID: userID, Role: role}, nil
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
