package utils

import (
	"fmt"
	"medibook-service/internal/pkg/constvars"
	"strings"
	"time"
)

// ParseDate parses a YYYY-MM-DD date into midnight UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if !dateYYYYMMDDRe.MatchString(value) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return time.Parse(constvars.DateLayout, value)
}

func FormatDate(t time.Time) string {
	return t.Format(constvars.DateLayout)
}
