// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package urlnorm

import "strings"

// expiredMarkers are phrases the marketplace renders on removed or expired
// pages, in both languages. Matching is case-insensitive containment.
var expiredMarkers = []string{
	"this listing is no longer available",
	"this listing has been removed",
	"discover similar listings",
	"no results found",
	"there are no results available for your search criteria",
	"notify me when new listings match this search",
	"page not found",
	"هذا الاعلان غير متوفر",
	"الإعلان غير متوفر",
	"الإعلان غير موجود",
	"تم حذف الإعلان",
	"يمكنك تصفح الإعلانات المشابهة",
	"اعلان غير متاح",
}

// PageUnavailable reports whether fetched page text carries one of the
// marketplace's expired/removed markers. An empty document is not treated
// as unavailable; absence of a marker means "unknown", not "alive".
func PageUnavailable(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, m := range expiredMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
