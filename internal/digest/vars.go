package digest

import (
	"strings"
	"time"
)

// ExpandVars performs simple placeholder substitutions for
// config-provided text fields (e.g., subject prefix, intro).
//
// Supported variables:
// - {.CurrentDate} => formatted as YYYY-MM-DD (UTC)
// - {.LongDate}    => formatted as "January 02, 2006" (UTC)
func ExpandVars(s string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	out := strings.ReplaceAll(s, "{.CurrentDate}", now.UTC().Format("2006-01-02"))
	out = strings.ReplaceAll(out, "{.LongDate}", now.UTC().Format("January 02, 2006"))
	return out
}
