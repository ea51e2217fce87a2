package validate

import (
	"fmt"
	"strings"
	"time"
)

const (
	// LayoutISO is the canonical date form used in user-facing tool
	// parameters.
	LayoutISO = "2006-01-02"
	// LayoutDarwinbox is the DD-MM-YYYY form the leave endpoint expects.
	LayoutDarwinbox = "02-01-2006"
)

// FutureHorizon bounds how far ahead a query window may start.
const FutureHorizon = 30 * 24 * time.Hour

// IsDate reports whether s is a real calendar date in YYYY-MM-DD form.
// time.Parse alone accepts normalized overflow, so the round-trip
// check rejects inputs like 2024-02-30.
func IsDate(s string) bool {
	t, err := time.Parse(LayoutISO, s)
	if err != nil {
		return false
	}
	return t.Format(LayoutISO) == s
}

// IsEmployeeID reports whether s is usable as an employee identifier:
// non-empty with trimmed length of at least 3. Existence is not
// checked here.
func IsEmployeeID(s string) bool {
	return len(strings.TrimSpace(s)) >= 3
}

// EmployeeIDs validates a list of identifiers, returning the first
// offender.
func EmployeeIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("employee ID list must not be empty")
	}
	for _, id := range ids {
		if !IsEmployeeID(id) {
			return fmt.Errorf("invalid employee ID: %q", id)
		}
	}
	return nil
}

// ConvertDate reformats s from one layout to another. Malformed input
// fails with an error rather than an empty result.
func ConvertDate(s, fromLayout, toLayout string) (string, error) {
	t, err := time.Parse(fromLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	if t.Format(fromLayout) != s {
		return "", fmt.Errorf("invalid date %q: not a calendar date", s)
	}
	return t.Format(toLayout), nil
}

// DateWindow checks the shared invariants for ranged queries: both
// ends are valid ISO dates, start <= end, and start is not more than
// FutureHorizon past now.
func DateWindow(start, end string, now time.Time) error {
	if !IsDate(start) {
		return fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", start)
	}
	if !IsDate(end) {
		return fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", end)
	}
	startT, _ := time.Parse(LayoutISO, start)
	endT, _ := time.Parse(LayoutISO, end)
	if startT.After(endT) {
		return fmt.Errorf("start date %s is after end date %s", start, end)
	}
	if startT.After(now.Add(FutureHorizon)) {
		return fmt.Errorf("start date %s is more than 30 days in the future", start)
	}
	return nil
}
