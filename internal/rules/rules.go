// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules holds the ordered rewrite tables the engine applies to
// query text and marketplace URLs. The built-in tables mirror the
// marketplace's current conventions; a YAML file can override them without
// a rebuild. Order is significant: rules are applied first to last, so more
// specific patterns must precede their prefixes.
package rules

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Pair is one ordered rewrite rule: occurrences of From become To.
type Pair struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Rules bundles the engine's rewrite tables.
type Rules struct {
	// Synonyms are whole-word, case-insensitive replacements applied to
	// cleaned product text (common brand misspellings).
	Synonyms []Pair `yaml:"synonyms"`

	// PathRewrites map deprecated marketplace path prefixes to their
	// current equivalents, applied as exact substring replacements.
	PathRewrites []Pair `yaml:"path_rewrites"`
}

// Default returns the built-in rule tables.
func Default() Rules {
	return Rules{
		Synonyms: []Pair{
			{From: "avante", To: "elantra"},
			{From: "hundai", To: "hyundai"},
			{From: "ifinix", To: "infinix"},
		},
		PathRewrites: []Pair{
			// Longest prefix first so the shorter rule cannot partially
			// rewrite a path the longer one owns.
			{From: "/mobile-tablet-prices-specs/mobile-phones/", To: "/mobile-phones-tablets/mobile-phones/"},
			{From: "/mobile-tablet-prices-specs/mobile/", To: "/mobile-phones-tablets/mobile-phones/"},
		},
	}
}

// Load reads a YAML rules file. Sections absent from the file keep the
// built-in tables; a present but empty section clears its table.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	type fileRules struct {
		Synonyms     *[]Pair `yaml:"synonyms"`
		PathRewrites *[]Pair `yaml:"path_rewrites"`
	}
	var fr fileRules
	if err := yaml.Unmarshal(data, &fr); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	r := Default()
	if fr.Synonyms != nil {
		r.Synonyms = *fr.Synonyms
	}
	if fr.PathRewrites != nil {
		r.PathRewrites = *fr.PathRewrites
	}
	return r, nil
}
