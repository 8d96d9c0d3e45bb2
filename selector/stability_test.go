package selector

import (
	"strings"
	"testing"
)

func TestIsStableValue(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"x", false},
		{strings.Repeat("a", 150), false},
		{"12345", false},
		{"deadbeef01", false},
		{"created-1700000000000", false},
		{"submit-form", true},
		{"you@example.com", true},
		{"Main navigation", true},
	}
	for _, tc := range cases {
		if got := IsStableValue(tc.value); got != tc.want {
			t.Errorf("IsStableValue(%q): got %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestIsGeneratedID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"", true},
		{"a1b2c3d4e5", true},
		{"1234567", true},
		{"f47ac10b-58cc-4372-a567-0e02b2c3d479", true},
		{"react-select-2-input", true},
		{"ember123", true},
		{"temp_field", true},
		{"auto_save_1", true},
		{"login-button", false},
		{"email", false},
	}
	for _, tc := range cases {
		if got := IsGeneratedID(tc.id); got != tc.want {
			t.Errorf("IsGeneratedID(%q): got %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestShortText(t *testing.T) {
	if got := shortText("  Log in  ", 50); got != "Log in" {
		t.Errorf("trimmed text: got %q, want %q", got, "Log in")
	}
	if got := shortText(strings.Repeat("x", 60), 50); got != "" {
		t.Errorf("overlong text: got %q, want empty", got)
	}
	if got := shortText("12345", 50); got != "" {
		t.Errorf("unstable text: got %q, want empty", got)
	}
}
