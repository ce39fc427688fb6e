package templates

import (
	"strings"
	"testing"

	"cardly/internal/design"
)

func TestBuiltinCatalogue(t *testing.T) {
	t.Parallel()

	reg := Builtin()
	tpl, ok := reg.Get("template1")
	if !ok {
		t.Fatal("expected template1 in builtin catalogue")
	}
	if tpl.FullImage == "" || tpl.PreviewImage == "" {
		t.Fatalf("expected images on template1: %+v", tpl)
	}
	if !reg.Has(reg.Default()) {
		t.Fatalf("default template %q missing", reg.Default())
	}
	if _, ok := reg.Get("unknown_id"); ok {
		t.Fatal("expected unknown id to be absent")
	}
}

func TestOptionsSortedByName(t *testing.T) {
	t.Parallel()

	options := Builtin().Options()
	if len(options) < 2 {
		t.Fatal("expected multiple template options")
	}
	for i := 1; i < len(options); i++ {
		if options[i-1].Name > options[i].Name {
			t.Fatalf("options not sorted by name: %v", options)
		}
	}
}

func TestRegistryServesResolver(t *testing.T) {
	t.Parallel()

	var reg design.Registry = Builtin()
	style, err := design.Resolve(design.State{Template: "template2"}, reg)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if style.Kind != design.KindImage || !strings.HasSuffix(style.Ref, "template2.webp") {
		t.Fatalf("unexpected style: %+v", style)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "version: 1\ntemplates: []\n"},
		{"missing id", "templates:\n  - name: x\n"},
		{"duplicate", "templates:\n  - id: a\n  - id: a\n"},
		{"bad default", "default: z\ntemplates:\n  - id: a\n"},
		{"unknown field", "templates:\n  - id: a\n    colour: red\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(strings.NewReader(tt.doc)); err == nil {
				t.Fatalf("expected error loading %q", tt.doc)
			}
		})
	}
}

func TestNilRegistryGet(t *testing.T) {
	t.Parallel()

	var reg *Registry
	if _, ok := reg.Get("template1"); ok {
		t.Fatal("expected nil registry to report missing")
	}
}

func TestFallbackOrder(t *testing.T) {
	t.Parallel()

	reg := Builtin()
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"account preference wins", []string{"template6", "template3"}, "template6"},
		{"stale preference skipped", []string{"retired", "template3"}, "template3"},
		{"blank preference skipped", []string{" ", "template3"}, "template3"},
		{"unknown site default", []string{"", "missing"}, "template1"},
		{"no candidates", nil, "template1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := reg.Fallback(tt.candidates...); got != tt.want {
				t.Fatalf("Fallback(%q) = %q, want %q", tt.candidates, got, tt.want)
			}
		})
	}
}
