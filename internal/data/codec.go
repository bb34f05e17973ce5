package data

import (
	"strconv"
	"strings"
	"time"
)

// NormalizeCardNumber strips every non-digit character from a card number.
func NormalizeCardNumber(card string) string {
	var b strings.Builder
	for _, ch := range strings.TrimSpace(card) {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// NormalizeExpiry reduces an expiry date to MMYY digits: "09/34" and "9/34"
// both become "0934". Three digits are left-padded, more than four are cut
// to the first four. Shorter malformed inputs pass through unchanged.
func NormalizeExpiry(expiry string) string {
	var b strings.Builder
	for _, ch := range strings.TrimSpace(expiry) {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 3:
		digits = "0" + digits
	case len(digits) > 4:
		digits = digits[:4]
	}

	return digits
}

// displayExpiry is the load-path normalization applied to rows returned by
// GetPending/GetAll: slashes removed, then left-padded to at least 4 digits.
func displayExpiry(v interface{}) string {
	s := strings.TrimSpace(strings.ReplaceAll(Str(v), "/", ""))
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

// ChargeToFloat parses a charge cell like "$1,250.00" into a float. A value
// that cannot be parsed counts as 0 so a single bad row never breaks a sum.
func ChargeToFloat(v interface{}) float64 {
	s := strings.TrimSpace(Str(v))
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return f
}

var timestampLayouts = []string{
	"2006-01-02 03:04:05 PM",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
}

// ParseTimestamp tries the timestamp layouts the sheet has accumulated over
// time. The second return is false when none match; callers drop such rows
// from time-filtered views instead of failing.
func ParseTimestamp(v interface{}) (time.Time, bool) {
	s := strings.TrimSpace(Str(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
