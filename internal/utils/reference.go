package utils

import "strings"

// NormalizeReference brings an RTI reference number to a single format:
// trimmed, inner spaces removed, upper case.
func NormalizeReference(raw string) string {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ToUpper(normalized)
	return normalized
}
