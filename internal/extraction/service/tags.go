package service

import (
	"strings"

	"jobboard_backend/internal/extraction/transport"
)

// Option is one selectable master value.
type Option struct {
	Category string
	Label    string
	Value    string
}

// MatchTags pairs each item with an option: case-insensitive equality on
// label or value first, then containment in either direction.
func MatchTags(items []string, options []Option) []transport.TagMatch {
	out := make([]transport.TagMatch, 0, len(items))
	for _, item := range items {
		out = append(out, matchOne(item, options))
	}
	return out
}

func matchOne(item string, options []Option) transport.TagMatch {
	needle := strings.ToLower(strings.TrimSpace(item))
	if needle == "" {
		return transport.TagMatch{Match: transport.MatchNew, Original: item}
	}

	for _, o := range options {
		if strings.ToLower(o.Label) == needle || strings.ToLower(o.Value) == needle {
			return transport.TagMatch{Match: transport.MatchExact, Original: item, Option: ref(o)}
		}
	}
	for _, o := range options {
		label, value := strings.ToLower(o.Label), strings.ToLower(o.Value)
		if containsEither(label, needle) || containsEither(value, needle) {
			return transport.TagMatch{Match: transport.MatchSimilar, Original: item, Option: ref(o)}
		}
	}
	return transport.TagMatch{Match: transport.MatchNew, Original: item}
}

func containsEither(a, b string) bool {
	if a == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func ref(o Option) *transport.OptionRef {
	return &transport.OptionRef{Label: o.Label, Value: o.Value}
}
