// Package auth resolves the Gemini API key and checks that it works.
package auth

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// APIKeyEnv is the environment variable holding the Gemini API key.
const APIKeyEnv = "GEMINI_API_KEY"

// ErrNoAPIKey is returned when GEMINI_API_KEY is unset or empty.
var ErrNoAPIKey = errors.New("GEMINI_API_KEY environment variable not set")

// GetAPIKey returns the Gemini API key from the environment. It is read on
// every call so a key loaded after startup (from .env or SSM) is picked up.
func GetAPIKey() (string, error) {
	if key := os.Getenv(APIKeyEnv); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}
	return "", ErrNoAPIKey
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// without overriding variables that are already set. Missing files are
// ignored; malformed ones are reported.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		log.Debug().Strs("paths", paths).Msg("No .env file found")
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return err
	}
	log.Debug().Strs("files", existing).Msg("Loaded environment from .env")
	return nil
}
