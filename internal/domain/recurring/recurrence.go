package recurring

import (
	"time"

	"github.com/walletly/backend/internal/domain/shared"
)

// Frequency represents how often a recurring item fires
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// IsValid checks if the frequency is a valid Frequency
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// NextOccurrence computes the next occurrence date for a recurring item.
//
// The anchor is the item's original start date. If the anchor is already on
// or after now, it is returned unchanged. Otherwise the date is advanced one
// period at a time until it reaches now; an item dormant for many periods
// catches up to the first occurrence that has not yet passed, it does not
// fire once per missed period.
//
// For monthly frequency the day of month targets dueDay (or the anchor's day
// when dueDay is nil), clamped to the length of each landing month, so a due
// day of 31 resolves to Feb 29 in a leap year and Feb 28 otherwise.
//
// Pure function: deterministic given its inputs, including now.
func NextOccurrence(frequency Frequency, anchor time.Time, dueDay *int, now time.Time) (time.Time, error) {
	if !frequency.IsValid() {
		return time.Time{}, shared.NewDomainError("INVALID_FREQUENCY", "Frequency is not valid")
	}
	if dueDay != nil && (*dueDay < 1 || *dueDay > 31) {
		return time.Time{}, shared.NewDomainError("INVALID_DUE_DAY", "Due day must be between 1 and 31")
	}

	today := shared.DateOf(now)
	next := shared.DateOf(anchor)
	if !next.Before(today) {
		return next, nil
	}

	switch frequency {
	case FrequencyDaily:
		for next.Before(today) {
			next = next.AddDate(0, 0, 1)
		}
	case FrequencyWeekly:
		for next.Before(today) {
			next = next.AddDate(0, 0, 7)
		}
	case FrequencyYearly:
		for next.Before(today) {
			next = next.AddDate(1, 0, 0)
		}
	case FrequencyMonthly:
		day := next.Day()
		if dueDay != nil {
			day = *dueDay
		}
		year, month := next.Year(), next.Month()
		for {
			year, month = followingMonth(year, month)
			next = time.Date(year, month, clampDay(day, year, month), 0, 0, 0, 0, anchor.Location())
			if !next.Before(today) {
				break
			}
		}
	}

	return next, nil
}

// followingMonth returns the year/month one calendar month after the given one
func followingMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// daysInMonth returns the number of days in the given month
func daysInMonth(year int, month time.Month) int {
	// day 0 of the following month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay clamps a target day of month to the length of the given month
func clampDay(day int, year int, month time.Month) int {
	if max := daysInMonth(year, month); day > max {
		return max
	}
	return day
}
