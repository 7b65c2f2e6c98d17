package ui

import (
	"strings"
	"testing"
)

func TestDetectThemeForcedDark(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("STEVE_DARK_MODE", "1")
	if !DetectTheme().IsDark {
		t.Error("expected STEVE_DARK_MODE=1 to force the dark theme")
	}
}

func TestDetectThemeFromColorFgBg(t *testing.T) {
	t.Setenv("STEVE_DARK_MODE", "")

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Error("expected dark theme for black background")
	}

	t.Setenv("COLORFGBG", "0;15")
	if DetectTheme().IsDark {
		t.Error("expected light theme for white background")
	}

	// Some terminals report three fields; the background is last.
	t.Setenv("COLORFGBG", "15;default;0")
	if !DetectTheme().IsDark {
		t.Error("expected dark theme for three-field COLORFGBG")
	}

	t.Setenv("COLORFGBG", "")
	if DetectTheme().IsDark {
		t.Error("expected light theme by default")
	}
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(LightTheme())
	if got := s.RenderDivider(0); got != "" {
		t.Errorf("expected empty divider at width 0, got %q", got)
	}
	if got := s.RenderDivider(4); !strings.Contains(got, "────") {
		t.Errorf("expected four-rune divider, got %q", got)
	}
}
