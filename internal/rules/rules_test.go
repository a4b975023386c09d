// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultOrdering(t *testing.T) {
	r := Default()
	if len(r.PathRewrites) < 2 {
		t.Fatalf("expected at least 2 path rewrites, got %d", len(r.PathRewrites))
	}
	// The more specific prefix must come first or it can never match.
	for i := 0; i < len(r.PathRewrites)-1; i++ {
		for j := i + 1; j < len(r.PathRewrites); j++ {
			longer := r.PathRewrites[i].From
			shorter := r.PathRewrites[j].From
			if strings.HasPrefix(longer, shorter) && len(shorter) < len(longer) {
				continue // shorter rule correctly ordered after
			}
			if strings.HasPrefix(shorter, longer) && len(longer) < len(shorter) {
				t.Errorf("rule %q ordered before more specific %q", longer, shorter)
			}
		}
	}
}

func TestLoadOverridesSynonyms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := "synonyms:\n  - from: merc\n    to: mercedes\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(r.Synonyms) != 1 || r.Synonyms[0].From != "merc" {
		t.Errorf("synonyms = %+v, want single merc rule", r.Synonyms)
	}
	// Path rewrites untouched when absent from the file.
	if len(r.PathRewrites) != len(Default().PathRewrites) {
		t.Errorf("path rewrites changed: %+v", r.PathRewrites)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing rules file")
	}
}
