// Command tokengen mints bearer tokens for local development against the course catalog API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/giannis84/course-catalog/internal/auth"
	"github.com/giannis84/course-catalog/internal/models"
)

func main() {
	userID := flag.Int64("user", 0, "numeric user ID to embed in the token (required)")
	role := flag.String("role", models.RoleStudent, "role claim")
	secret := flag.String("secret", "", "HMAC signing secret (or set JWT_SECRET env var)")
	expiry := flag.Duration("exp", auth.DefaultTokenTTL, "token expiry duration (e.g. 1h, 72h)")
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "error: -user must be a positive integer")
		flag.Usage()
		os.Exit(1)
	}

	cfg := auth.Config{
		Secret:   *secret,
		TokenTTL: *expiry,
	}
	if cfg.Secret == "" {
		cfg.Secret = os.Getenv("JWT_SECRET")
	}
	if cfg.Secret == "" {
		cfg.AllowUnsignedTokens = true
		fmt.Fprintln(os.Stderr, "Warning: token is unsigned (alg=none); do not use in production")
	}

	now := time.Now()
	signed, err := auth.IssueToken(cfg, *userID, *role, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Token for user %d (expires %s):\n", *userID, now.Add(*expiry).Format(time.RFC3339))
	fmt.Println(signed)
}
