package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	for name, v := range map[string]string{
		"Platform": Platform,
		"Engine":   Engine,
		"Server":   Server,
		"TUI":      TUI,
		"CLI":      CLI,
	} {
		if !semverRegex.MatchString(v) {
			t.Errorf("%s version %q does not match semver format (x.y.z)", name, v)
		}
	}
}

func TestComponentVersion(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"engine", Engine},
		{"server", Server},
		{"tui", TUI},
		{"cli", CLI},
		{"unknown", Platform},
		{"", Platform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComponentVersion(tt.name); got != tt.expected {
				t.Errorf("ComponentVersion(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "calc "+Platform) {
		t.Errorf("String() = %q, want prefix calc %s", s, Platform)
	}
	if !strings.Contains(s, "API "+API) {
		t.Errorf("String() = %q, want API %s", s, API)
	}
}
