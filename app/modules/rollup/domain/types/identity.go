package rolluptypes

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnusableGymName indicates a gym name that normalizes to an empty or
// pathologically long slug. Callers skip the gym fold and report the raw
// name at run end instead of substituting a shared bucket.
var ErrUnusableGymName = errors.New("gym name does not normalize to a usable slug")

// maxGymSlugLen bounds slugs so a single bad input cannot produce an
// unbounded document key.
const maxGymSlugLen = 100

var (
	nonAlnumRun  = regexp.MustCompile(`[^A-Z0-9]+`)
	numericGroup = regexp.MustCompile(`\d+`)
)

// ParticipantKey returns the stable identity key for one result entry.
// Entries that carry an external fighter id use it directly; entries from
// legacy sources are keyed by normalized name plus zero-padded DDMMYYYY
// birth date so the same fighter merges across both source shapes.
// Returns "" when no usable key can be derived; such entries cannot be
// aggregated and are skipped by the accumulator.
func ParticipantKey(externalID, firstName, lastName, dateOfBirth string) string {
	if id := strings.TrimSpace(externalID); id != "" {
		return id
	}

	first := upperAlnum(firstName)
	last := upperAlnum(lastName)
	dob := birthDateKey(dateOfBirth)
	if first == "" || last == "" || dob == "" {
		return ""
	}
	return first + last + dob
}

// GymSlug derives the storage-safe gym identifier from a free-text gym name.
// Upper-cased, runs of non-alphanumeric characters fold to one underscore,
// leading/trailing underscores trimmed. Total: returns ErrUnusableGymName
// for empty or oversized results, never panics.
func GymSlug(raw string) (string, error) {
	slug := strings.ToUpper(strings.TrimSpace(raw))
	slug = nonAlnumRun.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	if slug == "" || len(slug) > maxGymSlugLen {
		return "", fmt.Errorf("%w: %q", ErrUnusableGymName, raw)
	}
	return slug, nil
}

// NormalizeName upper-cases and trims a person-name component.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeContact lower-cases and trims an email address.
func NormalizeContact(contact string) string {
	return strings.ToLower(strings.TrimSpace(contact))
}

// upperAlnum strips everything but letters and digits and upper-cases the rest.
func upperAlnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// birthDateKey turns a free-text date of birth into a zero-padded DDMMYYYY
// string, or "" when the text does not parse.
func birthDateKey(raw string) string {
	day, month, year, ok := ParseBirthDate(raw)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d%02d%04d", day, month, year)
}

// ParseBirthDate splits a free-text date of birth into day/month/year.
// The component order of the input is inferred: a leading 4-digit group is
// a year (ISO order), otherwise day-first when the first group exceeds 12,
// month-first in the remaining ambiguous case (the dominant source format).
// ok is false when the text does not contain three numeric groups forming
// a plausible date.
func ParseBirthDate(raw string) (day, month, year int, ok bool) {
	groups := numericGroup.FindAllString(raw, -1)
	if len(groups) != 3 {
		return 0, 0, 0, false
	}

	first, err1 := strconv.Atoi(groups[0])
	second, err2 := strconv.Atoi(groups[1])
	third, err3 := strconv.Atoi(groups[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}

	day, month, year = second, first, third
	if first > 12 {
		day, month = first, second
	}
	if len(groups[0]) == 4 {
		year, month, day = first, second, third
	}

	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1000 || year > 9999 {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

// AgeOn returns the age in whole years on the given date (YYYY-MM-DD) for a
// free-text date of birth, or 0 when either date is unusable.
func AgeOn(dateOfBirth, onDate string) int {
	day, month, year, ok := ParseBirthDate(dateOfBirth)
	if !ok {
		return 0
	}
	on, err := time.Parse("2006-01-02", onDate)
	if err != nil {
		return 0
	}

	age := on.Year() - year
	if int(on.Month()) < month || (int(on.Month()) == month && on.Day() < day) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
