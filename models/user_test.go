package models

import (
	"testing"

	"cardly/internal/design"
)

func TestDesignStateRoundTrip(t *testing.T) {
	t.Parallel()

	stored := Design{
		CustomDesignURL: " https://x/u.png ",
		DesignMode:      "Manual",
		Template:        "template1",
		Color:           "#112233",
	}

	state := stored.State()
	if state.Mode != design.ModeManual {
		t.Fatalf("State().Mode = %q, want manual", state.Mode)
	}
	if state.CustomDesignURL != "https://x/u.png" {
		t.Fatalf("State().CustomDesignURL = %q, want trimmed url", state.CustomDesignURL)
	}

	back := DesignFromState(state)
	if back.DesignMode != "manual" || back.Color != "#112233" {
		t.Fatalf("DesignFromState returned %+v", back)
	}
}

func TestDesignStateIgnoresUnknownMode(t *testing.T) {
	t.Parallel()

	state := Design{DesignMode: "holographic", Color: "#112233"}.State()
	if state.Mode != design.ModeUnset {
		t.Fatalf("expected unknown stored mode to be unset, got %q", state.Mode)
	}
}

func TestSplitAndJoinTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  int
	}{
		{"empty", "", 0},
		{"blanks", " , ,", 0},
		{"three", "design, nfc ,go", 3},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SplitTags(tt.value); len(got) != tt.want {
				t.Fatalf("SplitTags(%q) = %v, want %d entries", tt.value, got, tt.want)
			}
		})
	}

	if got := JoinTags([]string{" a", "", "b "}); got != "a, b" {
		t.Fatalf("JoinTags returned %q", got)
	}
}
