package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: ", "commit: ", "built: "} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplateKeepsLdflags(t *testing.T) {
	Version, Commit = "v9.9.9", "abc123"
	got := Template()
	if !strings.Contains(got, "version v9.9.9") || !strings.Contains(got, "commit: abc123") {
		t.Errorf("Template() = %q", got)
	}
}
