package service

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"jobboard_backend/internal/extraction/transport"
)

var jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON returns the JSON object in a model reply: the body of a
// json code fence, else the span from the first '{' to the last '}'.
func ExtractJSON(text string) string {
	if m := jsonFencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

var (
	numberFields = map[string]bool{"hourly_wage": true, "annual_salary_min": true, "annual_salary_max": true}
	listFields   = map[string]bool{"tags": true, "requirements": true, "holidays": true, "benefits": true}
)

// DecodeJobData parses a model reply into JobData. Loosely typed values are
// coerced: numeric strings for number fields, strings for list fields, and
// 0 is read as absent.
func DecodeJobData(text string) (transport.JobData, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &raw); err != nil {
		return transport.JobData{}, fmt.Errorf("invalid model output: %w", err)
	}
	return FromMap(raw)
}

// FromMap converts a field map into JobData after coercion.
func FromMap(raw map[string]any) (transport.JobData, error) {
	normalized := make(map[string]any, len(raw))
	for key, value := range raw {
		if v, ok := coerceField(key, value); ok {
			normalized[key] = v
		}
	}

	encoded, err := json.Marshal(normalized)
	if err != nil {
		return transport.JobData{}, fmt.Errorf("failed to encode job data: %w", err)
	}
	var data transport.JobData
	if err := json.Unmarshal(encoded, &data); err != nil {
		return transport.JobData{}, fmt.Errorf("failed to decode job data: %w", err)
	}
	return data, nil
}

// ToMap flattens JobData into its JSON field map without empty values.
func ToMap(data transport.JobData) (map[string]any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job data: %w", err)
	}
	out := make(map[string]any)
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("failed to decode job data: %w", err)
	}
	return out, nil
}

func coerceField(key string, value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	switch {
	case numberFields[key]:
		n, ok := toInt(value)
		if !ok || n == 0 {
			return nil, false
		}
		return n, true
	case listFields[key]:
		items := toList(value)
		if len(items) == 0 {
			return nil, false
		}
		return items, true
	default:
		s := strings.TrimSpace(toText(value))
		if s == "" || (key == "annual_holidays" && s == "0") {
			return nil, false
		}
		return s, true
	}
}

var nonDigits = regexp.MustCompile(`[^0-9.\-]`)

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case string:
		cleaned := nonDigits.ReplaceAllString(v, "")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

func toList(value any) []string {
	var items []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if s := strings.TrimSpace(toText(item)); s != "" {
				items = append(items, s)
			}
		}
	case string:
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == '\n' || r == '、' || r == ',' }) {
			if s := strings.TrimSpace(part); s != "" {
				items = append(items, s)
			}
		}
	}
	return items
}

func toText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		return strings.Join(toList(v), "\n")
	}
	return ""
}

func formatValue(value any) string {
	if list, ok := value.([]any); ok {
		return strings.Join(toList(list), ", ")
	}
	return toText(value)
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
