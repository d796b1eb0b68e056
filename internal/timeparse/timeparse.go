// Package timeparse normalizes free-form user input into HH:MM clock strings.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clockRe = regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\b`)
	bareRe  = regexp.MustCompile(`^\d{1,2}$`)
	hourRe  = regexp.MustCompile(`^(\d{1,2})\s*(ч|h|hour)`)
)

// Normalize extracts a time of day from user text and returns it as a
// zero-padded "HH:MM" string. Accepted forms: "9:30", "09.30" anywhere in
// the text, a bare hour ("9"), or an hour with a marker ("9ч", "9 h").
// The second return value reports whether a valid time was found.
func Normalize(input string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(input))

	// An out-of-range clock token does not fail outright; the hour branches
	// below still get a chance at the input.
	if m := clockRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h >= 0 && h <= 23 && min >= 0 && min <= 59 {
			return fmt.Sprintf("%02d:%02d", h, min), true
		}
	}

	var hourText string
	if bareRe.MatchString(s) {
		hourText = s
	} else if m := hourRe.FindStringSubmatch(s); m != nil {
		hourText = m[1]
	}
	if hourText != "" {
		h, _ := strconv.Atoi(hourText)
		if h <= 23 {
			return fmt.Sprintf("%02d:00", h), true
		}
	}
	return "", false
}
