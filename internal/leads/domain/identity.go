package domain

import "strings"

// ResolveIdentity derives the deduplication key of an activity row:
// u:<accountID>, else e:<normalized email>, else fallback.
// fallback must be unique per raw row (e.g. "click:"+row.ID); sharing one
// would merge unrelated anonymous visitors.
func ResolveIdentity(accountID, email, fallback string) string {
	if id := strings.TrimSpace(accountID); id != "" {
		return "u:" + id
	}
	if normalized := NormalizeEmail(email); normalized != "" {
		return "e:" + normalized
	}
	return fallback
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
