package designer

import (
	"strings"
	"testing"

	"dukanBack/internal/models"
)

func TestDiffOmitsUnchangedFields(t *testing.T) {
	old := &models.DesignResult{
		CSSVars:     map[string]string{"--color-primary": "#111", "--color-accent": "#f90", "--radius": "4px"},
		HeadingFont: "Inter",
	}
	new := &models.DesignResult{
		CSSVars:     map[string]string{"--color-primary": "#222", "--color-accent": "#f90", "--radius": "4px"},
		HeadingFont: "Inter",
	}

	changes := Diff(old, new)
	if len(changes) != 1 {
		t.Fatalf("expected exactly one change, got %+v", changes)
	}
	if changes[0].Field != "css:--color-primary" || changes[0].New != "#222" {
		t.Fatalf("unexpected change: %+v", changes[0])
	}
}

func TestDestructiveWarning(t *testing.T) {
	current := &models.DesignResult{
		CSSVars: map[string]string{
			"--color-primary": "#111",
			"--color-accent":  "#f90",
			"--color-bg":      "#fff",
			"--radius":        "4px",
		},
	}

	t.Run("identical design never flags", func(t *testing.T) {
		same := &models.DesignResult{CSSVars: map[string]string{
			"--color-primary": "#111",
			"--color-accent":  "#f90",
			"--color-bg":      "#fff",
			"--radius":        "4px",
		}}
		if w := DestructiveWarning(current, same); w != "" {
			t.Fatalf("expected no warning, got %q", w)
		}
	})

	t.Run("small change passes silently", func(t *testing.T) {
		proposed := &models.DesignResult{CSSVars: map[string]string{
			"--color-primary": "#222",
			"--color-accent":  "#f90",
			"--color-bg":      "#fff",
			"--radius":        "4px",
		}}
		if w := DestructiveWarning(current, proposed); w != "" {
			t.Fatalf("expected no warning, got %q", w)
		}
	})

	t.Run("rewriting most fields flags", func(t *testing.T) {
		proposed := &models.DesignResult{CSSVars: map[string]string{
			"--color-primary": "#000",
			"--color-accent":  "#0f0",
			"--color-bg":      "#333",
			"--radius":        "12px",
		}}
		w := DestructiveWarning(current, proposed)
		if w == "" {
			t.Fatal("expected destructive warning")
		}
		if !strings.Contains(w, "4 of 4") {
			t.Fatalf("warning should name the changed fraction, got %q", w)
		}
	})

	t.Run("no published design never flags", func(t *testing.T) {
		if w := DestructiveWarning(nil, current); w != "" {
			t.Fatalf("expected no warning without a baseline, got %q", w)
		}
	})
}

func TestPublishSummary(t *testing.T) {
	previous := &models.DesignResult{CSSVars: map[string]string{"--color-primary": "#111"}}
	published := &models.DesignResult{
		CSSVars:     map[string]string{"--color-primary": "#222"},
		HeadingFont: "Poppins",
	}

	s := PublishSummary(previous, published)
	if !strings.Contains(s, "--color-primary") || !strings.Contains(s, "Poppins") {
		t.Fatalf("summary should name changed fields, got %q", s)
	}

	if s := PublishSummary(previous, previous); !strings.Contains(s, "No tracked attributes changed") {
		t.Fatalf("no-op publish should say nothing changed, got %q", s)
	}
}
