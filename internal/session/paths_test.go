package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/whatsterm/internal/config"
)

func TestDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := Dir("main")
	want := filepath.Join(home, ".whatsterm", "sessions", "main")
	if got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
}

func TestSessionPaths(t *testing.T) {
	tests := []struct {
		name   string
		got    string
		suffix string
	}{
		{"lock", LockPath("test"), filepath.Join("sessions", "test", "LOCK")},
		{"session db", SessionDBPath("test"), filepath.Join("sessions", "test", "session.db")},
		{"app db", AppDBPath("test"), filepath.Join("sessions", "test", "app.db")},
		{"media", MediaDir("test"), filepath.Join("sessions", "test", "media")},
		{"log", LogPath("test"), filepath.Join("sessions", "test", "logs", "whatsterm.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasSuffix(tt.got, tt.suffix) {
				t.Errorf("path = %q, want suffix %q", tt.got, tt.suffix)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		flag string
		cfg  *config.Config
		want string
	}{
		{"flag wins", "work", &config.Config{DefaultSession: "home"}, "work"},
		{"config default", "", &config.Config{DefaultSession: "home"}, "home"},
		{"fallback", "", &config.Config{}, DefaultSessionName},
		{"nil config", "", nil, DefaultSessionName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.flag, tt.cfg); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveMediaDir(t *testing.T) {
	if got := ResolveMediaDir("test", &config.Config{MediaDir: "/srv/media"}); got != "/srv/media" {
		t.Errorf("ResolveMediaDir() = %q, want /srv/media", got)
	}
	if got := ResolveMediaDir("test", config.Default()); got != MediaDir("test") {
		t.Errorf("ResolveMediaDir() = %q, want %q", got, MediaDir("test"))
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"main", true},
		{"work-2", true},
		{"my_session", true},
		{strings.Repeat("a", 64), true},
		{"", false},
		{"Main", false},
		{"my session", false},
		{"../main", false},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.ok && err != nil {
				t.Errorf("ValidateName(%q) = %v", tt.input, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidName) {
				t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", tt.input, err)
			}
		})
	}
}
