package utils

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,19}$`)
)

// ValidEmail reports whether s looks like an email address.  This is a
// shallow shape check; deliverability is not our problem.
func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// ValidPhone accepts digits with an optional leading + and common
// separators, 6 to 20 characters.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

// ValidPersonName requires a non-empty name of sane length.
func ValidPersonName(s string) bool {
	n := len(strings.TrimSpace(s))
	return n >= 2 && n <= 100
}
