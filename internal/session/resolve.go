package session

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/matheus3301/whatsterm/internal/config"
)

const DefaultSessionName = "main"

// ErrInvalidName is wrapped by ValidateName failures.
var ErrInvalidName = errors.New("invalid session name")

// Names become directory names under BaseDir.
var namePattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// ValidateName reports whether name can be used as a session name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w %q: use 1-64 of a-z, 0-9, '-' and '_'", ErrInvalidName, name)
	}
	return nil
}

// Resolve determines the active session name using precedence:
// 1. flagOverride (--session flag)
// 2. config.toml default_session
// 3. "main"
func Resolve(flagOverride string, cfg *config.Config) string {
	if flagOverride != "" {
		return flagOverride
	}
	if cfg != nil && cfg.DefaultSession != "" {
		return cfg.DefaultSession
	}
	return DefaultSessionName
}

// ResolveMediaDir returns the configured media directory, or the session's
// own one when none is set.
func ResolveMediaDir(name string, cfg *config.Config) string {
	if cfg != nil && cfg.MediaDir != "" {
		return cfg.MediaDir
	}
	return MediaDir(name)
}
