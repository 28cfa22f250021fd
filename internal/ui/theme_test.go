package ui

import (
	"testing"
)

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
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Solarized").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Solarized).Name = %q, want Nightfox", got)
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.Name != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, th.Name)
		}
		for _, status := range []string{"live", "syncing", "stale", "offline"} {
			if th.SyncColors[status] == "" {
				t.Fatalf("theme %s missing sync color %q", name, status)
			}
		}
	}
}

func TestTempColor_Bounds(t *testing.T) {
	th := GetTheme("Slate")
	if got := th.TempColor(-40); got != th.TempScale[0] {
		t.Fatalf("TempColor(-40) = %q, want coldest %q", got, th.TempScale[0])
	}
	if got := th.TempColor(60); got != th.TempScale[len(th.TempScale)-1] {
		t.Fatalf("TempColor(60) = %q, want hottest", got)
	}
	if got := (Theme{Text: "#fff"}).TempColor(20); got != "#fff" {
		t.Fatalf("TempColor without scale = %q, want text color", got)
	}
}
