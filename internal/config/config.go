// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Server holds everything the HTTP server needs to start. DatabaseURL is
// required; GeminiAPIKey is optional and disables the summary suggestion
// endpoint when empty.
type Server struct {
	Port         int
	DatabaseURL  string
	GeminiAPIKey string
	JWT          *JWTConfig
	Password     *PasswordConfig
}

// FromEnv builds a Server config from environment variables. It reads PORT
// (default 3001), DATABASE_URL, GEMINI_API_KEY, and the JWT and password
// variables.
func FromEnv() (*Server, error) {
	port := 3001
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		port = p
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", port)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	jwtConfig, err := NewJWTConfig()
	if err != nil {
		return nil, err
	}

	passwordConfig, err := NewPasswordConfig()
	if err != nil {
		return nil, err
	}

	return &Server{
		Port:         port,
		DatabaseURL:  dbURL,
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		JWT:          jwtConfig,
		Password:     passwordConfig,
	}, nil
}
