// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math/rand"
	"testing"

	"github.com/obeidat/sooqlink/pkg/types"
)

func cand(url string) types.NormalizedCandidate {
	return types.NormalizedCandidate{URL: url}
}

func intentWith(product string, keywords []string) types.ParsedIntent {
	return types.ParsedIntent{ProductText: product, Keywords: keywords}
}

func TestListingAndMalformedNeverSelected(t *testing.T) {
	r := New(DefaultWeights())
	candidates := []types.NormalizedCandidate{
		{URL: "https://jo.opensooq.com/en/cars/123456789", IsListingPage: true},
		{URL: "https://jo.opensooq.com/en/listing-serp?q=x", IsMalformed: true},
		{URL: ""},
	}
	if _, ok := r.Best(candidates, intentWith("nissan micra", []string{"nissan", "micra"})); ok {
		t.Error("only listing/malformed candidates should yield no winner")
	}
}

func TestEmptyCandidatesIsNoMatch(t *testing.T) {
	r := New(DefaultWeights())
	if _, ok := r.Best(nil, intentWith("sofa", []string{"sofa"})); ok {
		t.Error("empty candidate list should yield no winner")
	}
}

func TestKeywordAndDepthScoring(t *testing.T) {
	r := New(DefaultWeights())
	it := intentWith("nissan micra", []string{"nissan", "micra"})
	candidates := []types.NormalizedCandidate{
		{URL: "https://jo.opensooq.com/en/furniture", PathDepth: 2},
		{URL: "https://jo.opensooq.com/en/cars/cars-for-sale/nissan/micra", PathDepth: 5},
	}

	best, ok := r.Best(candidates, it)
	if !ok {
		t.Fatal("expected a winner")
	}
	if best.URL != candidates[1].URL {
		t.Errorf("winner = %q, want the keyword-rich deep category", best.URL)
	}
	// Two path keywords (10 each) + depth band bonus (10) + storage-absent
	// bonus (5). No slug bonus: the hyphenated slug "nissan-micra" does
	// not appear in the slash-separated path.
	if best.KeywordScore != 20 {
		t.Errorf("KeywordScore = %d, want 20", best.KeywordScore)
	}
	if best.Score != 35 {
		t.Errorf("Score = %d, want 35", best.Score)
	}
}

func TestSlugBonusRequiresContainment(t *testing.T) {
	r := New(DefaultWeights())
	it := intentWith("nissan micra", []string{"nissan"})
	with, _ := r.Best([]types.NormalizedCandidate{
		cand("https://jo.opensooq.com/en/cars/nissan-micra/amman"),
	}, it)
	without, _ := r.Best([]types.NormalizedCandidate{
		cand("https://jo.opensooq.com/en/cars/nissan/amman"),
	}, it)
	if with.Score-without.Score != DefaultWeights().SlugBonus {
		t.Errorf("slug bonus delta = %d, want %d", with.Score-without.Score, DefaultWeights().SlugBonus)
	}
}

func TestStoragePolicy(t *testing.T) {
	r := New(DefaultWeights())
	storageURL := "https://jo.opensooq.com/en/mobiles/apple/128gb"
	plainURL := "https://jo.opensooq.com/en/mobiles/apple"

	t.Run("unwanted storage is stripped and demoted", func(t *testing.T) {
		it := intentWith("iphone", []string{"iphone"})
		scored := r.Rank([]types.NormalizedCandidate{
			{URL: storageURL, HasStorageSegment: true},
		}, it)
		if len(scored) != 1 {
			t.Fatalf("len = %d, want 1", len(scored))
		}
		if scored[0].URL != plainURL {
			t.Errorf("URL = %q, want storage segment stripped to %q", scored[0].URL, plainURL)
		}
		// Depth 3 band (+10) + unwanted-storage penalty (-20).
		if scored[0].Score != -10 {
			t.Errorf("Score = %d, want -10", scored[0].Score)
		}
	})

	t.Run("wanted storage is kept and boosted", func(t *testing.T) {
		it := types.ParsedIntent{ProductText: "iphone 128gb", HasStorageHint: true, Keywords: []string{"iphone"}}
		scored := r.Rank([]types.NormalizedCandidate{
			{URL: storageURL, HasStorageSegment: true},
		}, it)
		if scored[0].URL != storageURL {
			t.Errorf("URL = %q, want storage segment kept", scored[0].URL)
		}
		// Depth 4 band (+10) + wanted-storage bonus (+15).
		if scored[0].Score != 25 {
			t.Errorf("Score = %d, want 25", scored[0].Score)
		}
	})
}

func TestYearPolicy(t *testing.T) {
	r := New(DefaultWeights())
	yearURL := "https://jo.opensooq.com/en/cars/nissan/2014"

	// User supplied a year filter: the year segment is stripped so the
	// filter can be applied cleanly, and year-locked siblings demoted.
	it := types.ParsedIntent{ProductText: "nissan", HasYearHint: true, Keywords: []string{"nissan"}}
	scored := r.Rank([]types.NormalizedCandidate{
		{URL: yearURL, HasYearSegment: true},
	}, it)
	want := "https://jo.opensooq.com/en/cars/nissan"
	if scored[0].URL != want {
		t.Errorf("URL = %q, want %q", scored[0].URL, want)
	}
	// Keyword in path (10) + depth 3 band (10) + slug (15) +
	// storage-absent (5) + redundant-year penalty (-15).
	if scored[0].Score != 25 {
		t.Errorf("Score = %d, want 25", scored[0].Score)
	}

	// No year intent: the segment stays and no penalty applies.
	scored = r.Rank([]types.NormalizedCandidate{
		{URL: yearURL, HasYearSegment: true},
	}, intentWith("nissan", []string{"nissan"}))
	if scored[0].URL != yearURL {
		t.Errorf("URL = %q, want year segment kept", scored[0].URL)
	}
}

func TestDedupAfterStripping(t *testing.T) {
	r := New(DefaultWeights())
	// Both collapse to the same URL once the year segment is stripped;
	// the first occurrence wins.
	it := types.ParsedIntent{ProductText: "nissan", HasYearHint: true, Keywords: []string{"nissan"}}
	scored := r.Rank([]types.NormalizedCandidate{
		{URL: "https://jo.opensooq.com/en/cars/nissan/2014", HasYearSegment: true},
		{URL: "https://jo.opensooq.com/en/cars/nissan/2015", HasYearSegment: true},
	}, it)
	if len(scored) != 1 {
		t.Errorf("len = %d, want 1 after dedup", len(scored))
	}
}

func TestRankStableUnderShuffle(t *testing.T) {
	r := New(DefaultWeights())
	it := intentWith("nissan micra", []string{"nissan", "micra"})
	candidates := []types.NormalizedCandidate{
		cand("https://jo.opensooq.com/en/cars/cars-for-sale/nissan/micra"),
		cand("https://jo.opensooq.com/en/cars/cars-for-sale/nissan"),
		cand("https://jo.opensooq.com/en/cars/cars-for-sale"),
		cand("https://jo.opensooq.com/en/furniture"),
	}

	base, ok := r.Best(candidates, it)
	if !ok {
		t.Fatal("expected a winner")
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := make([]types.NormalizedCandidate, len(candidates))
		copy(shuffled, candidates)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got, ok := r.Best(shuffled, it)
		if !ok || got.URL != base.URL {
			t.Fatalf("shuffle %d: winner = %q, want %q", i, got.URL, base.URL)
		}
	}
}

func TestTieBreakKeepsInputOrder(t *testing.T) {
	r := New(DefaultWeights())
	it := intentWith("", nil)
	// Identical scores: same depth, no keywords, no slug.
	a := cand("https://jo.opensooq.com/en/cars/cars-for-sale/alpha")
	b := cand("https://jo.opensooq.com/en/cars/cars-for-sale/beta")

	first, _ := r.Best([]types.NormalizedCandidate{a, b}, it)
	if first.URL != a.URL {
		t.Errorf("tie winner = %q, want first input %q", first.URL, a.URL)
	}
	second, _ := r.Best([]types.NormalizedCandidate{b, a}, it)
	if second.URL != b.URL {
		t.Errorf("tie winner = %q, want first input %q", second.URL, b.URL)
	}
}
