package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestLayoutRendersProvidedContent(t *testing.T) {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<main>content</main>"))
		return err
	})

	var buf bytes.Buffer
	if err := Layout("Cards & Menus", content).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Cards &amp; Menus</title>") {
		t.Fatalf("expected escaped document title: %s", out)
	}
	if !strings.Contains(out, "<main>content</main>") {
		t.Fatalf("expected body content in output: %s", out)
	}
}

func TestLayoutAllowsNilBody(t *testing.T) {
	var buf bytes.Buffer
	if err := Layout("Empty", nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "</html>") {
		t.Fatalf("expected closed document: %s", buf.String())
	}
}
