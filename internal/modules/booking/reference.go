package booking

import (
	"strconv"
	"strings"
	"time"
)

const referencePrefix = "CEL"

// NewReferenceNumber builds a human-readable code from the current time:
// prefix plus the millisecond timestamp in base 36, uppercased. Collisions
// are treated as negligible but not impossible; the store's unique index is
// the backstop.
func NewReferenceNumber(now time.Time) string {
	return referencePrefix + "-" + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}
