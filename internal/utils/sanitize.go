package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Strict policy: poll and option text is plain text, all markup is stripped.
var policy = bluemonday.StrictPolicy()

func SanitizeText(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
