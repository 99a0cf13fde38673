package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int {
	return &v
}

func TestNextOccurrence_AnchorInFuture(t *testing.T) {
	// anchor already ahead of now must come back unchanged
	anchor := date(2024, time.June, 10)

	next, err := NextOccurrence(FrequencyWeekly, anchor, nil, date(2024, time.June, 5))

	require.NoError(t, err)
	assert.Equal(t, anchor, next)
}

func TestNextOccurrence_AnchorToday(t *testing.T) {
	anchor := date(2024, time.June, 10)

	next, err := NextOccurrence(FrequencyDaily, anchor, nil, date(2024, time.June, 10))

	require.NoError(t, err)
	assert.Equal(t, anchor, next)
}

func TestNextOccurrence_Daily(t *testing.T) {
	next, err := NextOccurrence(FrequencyDaily, date(2024, time.June, 1), nil, date(2024, time.June, 15))

	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 15), next)
}

func TestNextOccurrence_WeeklyCatchesUpDormantPeriods(t *testing.T) {
	// anchor months in the past: must loop period by period, not add one week
	next, err := NextOccurrence(FrequencyWeekly, date(2024, time.January, 1), nil, date(2024, time.June, 5))

	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 10), next)
	assert.Equal(t, time.Monday, next.Weekday())
}

func TestNextOccurrence_MonthlyLeapYearClamp(t *testing.T) {
	next, err := NextOccurrence(FrequencyMonthly, date(2024, time.January, 31), intPtr(31), date(2024, time.February, 1))

	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), next)
}

func TestNextOccurrence_MonthlyNonLeapYearClamp(t *testing.T) {
	next, err := NextOccurrence(FrequencyMonthly, date(2025, time.January, 31), intPtr(31), date(2025, time.February, 1))

	require.NoError(t, err)
	assert.Equal(t, date(2025, time.February, 28), next)
}

func TestNextOccurrence_MonthlyRecoversDueDayAfterShortMonth(t *testing.T) {
	// due day 31 clamped to Feb 29, but March has 31 days again
	next, err := NextOccurrence(FrequencyMonthly, date(2024, time.January, 31), intPtr(31), date(2024, time.March, 1))

	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 31), next)
}

func TestNextOccurrence_MonthlyWithoutDueDayUsesAnchorDay(t *testing.T) {
	next, err := NextOccurrence(FrequencyMonthly, date(2024, time.March, 15), nil, date(2024, time.April, 1))

	require.NoError(t, err)
	assert.Equal(t, date(2024, time.April, 15), next)
}

func TestNextOccurrence_MonthlyCatchesUpDormantPeriods(t *testing.T) {
	next, err := NextOccurrence(FrequencyMonthly, date(2023, time.May, 31), intPtr(31), date(2024, time.February, 15))

	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), next)
}

func TestNextOccurrence_Yearly(t *testing.T) {
	next, err := NextOccurrence(FrequencyYearly, date(2020, time.July, 4), nil, date(2024, time.July, 5))

	require.NoError(t, err)
	assert.Equal(t, date(2025, time.July, 4), next)
}

func TestNextOccurrence_IgnoresTimeOfDay(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, time.June, 10, 0, 1, 0, 0, time.UTC)

	next, err := NextOccurrence(FrequencyDaily, anchor, nil, now)

	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 10), next)
}

func TestNextOccurrence_InvalidInputs(t *testing.T) {
	_, err := NextOccurrence(Frequency("HOURLY"), date(2024, time.June, 1), nil, date(2024, time.June, 2))
	assert.Error(t, err)

	_, err = NextOccurrence(FrequencyMonthly, date(2024, time.June, 1), intPtr(0), date(2024, time.June, 2))
	assert.Error(t, err)

	_, err = NextOccurrence(FrequencyMonthly, date(2024, time.June, 1), intPtr(32), date(2024, time.June, 2))
	assert.Error(t, err)
}
