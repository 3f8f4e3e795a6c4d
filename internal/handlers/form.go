package handlers

import (
	"encoding/json"
	"strings"
)

// parseStringList accepts a JSON array or a comma separated list and drops
// blank entries.
func parseStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	var items []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, err
		}
	} else {
		items = strings.Split(raw, ",")
	}
	return compactStrings(items), nil
}

func compactStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
