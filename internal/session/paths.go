package session

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.whatsterm.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".whatsterm")
}

// Dir returns the session-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "sessions", name)
}

// LockPath returns the lock file path for a session.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// SessionDBPath returns the whatsmeow session.db path.
func SessionDBPath(name string) string {
	return filepath.Join(Dir(name), "session.db")
}

// AppDBPath returns the app-owned chats/messages/contacts database path.
func AppDBPath(name string) string {
	return filepath.Join(Dir(name), "app.db")
}

// MediaDir returns the directory downloaded attachments are stored in.
func MediaDir(name string) string {
	return filepath.Join(Dir(name), "media")
}

// LogDir returns the log directory for a session.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "whatsterm.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the session directory tree with proper permissions.
// mediaDir may point outside the session directory.
func EnsureDir(name, mediaDir string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
		mediaDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
