package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct{ current, want string }{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Errorf("NextTheme(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox fallback", got)
	}
}

func TestStatusColor(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, status := range []string{"idle", "loading", "succeeded", "failed", "offline"} {
			if th.StatusColor(status) == "" {
				t.Errorf("%s: no color for %q", name, status)
			}
		}
		if got := th.StatusColor("unknown"); got != th.Muted {
			t.Errorf("%s: StatusColor(unknown) = %q, want muted %q", name, got, th.Muted)
		}
	}
}
