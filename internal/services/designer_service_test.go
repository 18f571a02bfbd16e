package services

import (
	"strings"
	"testing"

	"dukanBack/internal/models"
)

func TestClassifyReply(t *testing.T) {
	t.Run("fenced json with design fields", func(t *testing.T) {
		content := "Here you go:\n```json\n{\"summary\":\"Warmer palette\",\"css_vars\":{\"--primary\":\"#c2410c\"}}\n```"
		design, text := classifyReply(content)
		if design == nil {
			t.Fatalf("expected a design")
		}
		if design.CSSVars["--primary"] != "#c2410c" {
			t.Errorf("css var mismatch: %v", design.CSSVars)
		}
		if text != "Warmer palette" {
			t.Errorf("text should be the summary, got %q", text)
		}
	})

	t.Run("bare json object", func(t *testing.T) {
		content := `{"summary":"Two columns","grid_columns":2}`
		design, _ := classifyReply(content)
		if design == nil {
			t.Fatalf("expected a design")
		}
		if design.GridColumns != 2 {
			t.Errorf("grid columns mismatch: %d", design.GridColumns)
		}
	})

	t.Run("plain text stays text", func(t *testing.T) {
		design, text := classifyReply("Your current theme already uses a dark palette.")
		if design != nil {
			t.Fatalf("unexpected design: %+v", design)
		}
		if text == "" {
			t.Errorf("expected text reply")
		}
	})

	t.Run("json without design fields stays text", func(t *testing.T) {
		design, text := classifyReply(`{"summary":"just words, no changes"}`)
		if design != nil {
			t.Fatalf("summary alone is not a design")
		}
		if !strings.Contains(text, "just words") {
			t.Errorf("original content lost: %q", text)
		}
	})

	t.Run("malformed json stays text", func(t *testing.T) {
		design, _ := classifyReply("```json\n{not valid\n```")
		if design != nil {
			t.Fatalf("unexpected design from malformed json")
		}
	})
}

func TestRenderThemeCSS(t *testing.T) {
	design := &models.DesignResult{
		CSSVars: map[string]string{
			"--radius":  "8px",
			"--primary": "#0f766e",
		},
		RawCSS: ".hero { padding: 4rem; }",
	}

	css := RenderThemeCSS(design)

	primary := strings.Index(css, "--primary")
	radius := strings.Index(css, "--radius")
	if primary < 0 || radius < 0 {
		t.Fatalf("variables missing from output:\n%s", css)
	}
	if primary > radius {
		t.Errorf("variables must render sorted:\n%s", css)
	}
	if !strings.Contains(css, ".hero { padding: 4rem; }") {
		t.Errorf("raw css missing:\n%s", css)
	}
	if !strings.HasPrefix(css, ":root {") {
		t.Errorf("expected :root block first:\n%s", css)
	}

	if got := RenderThemeCSS(nil); got != "" {
		t.Errorf("nil design should render empty, got %q", got)
	}
}

func TestRenderThemeCSS_Stable(t *testing.T) {
	design := &models.DesignResult{CSSVars: map[string]string{"--a": "1", "--b": "2", "--c": "3"}}
	first := RenderThemeCSS(design)
	for i := 0; i < 10; i++ {
		if RenderThemeCSS(design) != first {
			t.Fatalf("output not stable across renders")
		}
	}
}
