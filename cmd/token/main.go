// token mints an access token for the dashboard API using the configured
// JWT_SECRET_KEY.
//
// Usage: go run ./cmd/token [-role=viewer|admin] [-sub=name]
//
// The token is printed to stdout; its expiry follows JWT_ACCESS_EXPIRATION_TIME.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/config"
	"github.com/worklense/hrbi-backend-go/internal/pkg/jwt"
)

func main() {
	role := flag.String("role", string(jwt.RoleViewer), "Token role: viewer or admin")
	subject := flag.String("sub", "cli", "Token subject")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.AuthEnabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is not set, authentication is disabled")
		os.Exit(1)
	}

	r, err := jwt.ParseRole(*role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	svc, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize JWT service: %v\n", err)
		os.Exit(1)
	}
	token, expiresAt, err := svc.GenerateAccessToken(*subject, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "role=%s sub=%s expires=%s\n", r, *subject, time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	fmt.Println(token)
}
