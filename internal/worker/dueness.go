// Package worker provides the background processors: the reminder scheduler
// and the paid-bill export consumer.
//
// This file implements the Strategy Pattern for reminder dueness checking.
// Each frequency type (daily, weekly, monthly, yearly) has its own strategy
// that encapsulates the logic for determining if a reminder is due.
package worker

import (
	"fmt"
	"time"

	"github.com/ayush-madan/paypilot/internal/core"
)

// DuenessChecker is the strategy interface for checking if a reminder is
// due. Each implementation encapsulates the algorithm for a specific
// frequency type.
type DuenessChecker interface {
	// IsDue returns true if the reminder should fire based on the last time
	// it fired and the current time.
	IsDue(lastSent, now time.Time, startDate core.Date) bool
}

// DailyChecker implements DuenessChecker for daily reminders.
type DailyChecker struct{}

// IsDue returns true if the reminder last fired before today.
func (DailyChecker) IsDue(lastSent, now time.Time, _ core.Date) bool {
	if lastSent.IsZero() {
		return true
	}
	return lastSent.Format("2006-01-02") != now.Format("2006-01-02")
}

// WeeklyChecker implements DuenessChecker for weekly reminders.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the last send.
func (WeeklyChecker) IsDue(lastSent, now time.Time, _ core.Date) bool {
	if lastSent.IsZero() {
		return true
	}
	daysSince := now.Sub(lastSent).Hours() / 24
	return daysSince >= 7
}

// MonthlyChecker implements DuenessChecker for monthly reminders.
type MonthlyChecker struct{}

// IsDue returns true if we're in a new month and have reached the target
// day carried by the reminder's start date.
func (MonthlyChecker) IsDue(lastSent, now time.Time, startDate core.Date) bool {
	if lastSent.IsZero() {
		return true
	}

	// Already fired this month?
	if lastSent.Year() == now.Year() && lastSent.Month() == now.Month() {
		return false
	}

	// Clamp the target day into months that are too short.
	targetDay := startDate.Day()
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}

	return now.Day() >= targetDay
}

// YearlyChecker implements DuenessChecker for yearly reminders.
type YearlyChecker struct{}

// IsDue returns true if we're in a new year and have reached the target
// month and day.
func (YearlyChecker) IsDue(lastSent, now time.Time, startDate core.Date) bool {
	if lastSent.IsZero() {
		return true
	}

	// Already fired this year?
	if lastSent.Year() == now.Year() {
		return false
	}

	targetMonth := startDate.Month()
	targetDay := startDate.Day()

	if now.Month() < targetMonth {
		return false
	}

	if now.Month() == targetMonth {
		lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
		if targetDay > lastDayOfMonth {
			targetDay = lastDayOfMonth
		}
		return now.Day() >= targetDay
	}

	// We're past the target month.
	return true
}

// duenessStrategies maps frequencies to their corresponding checkers.
var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the appropriate dueness checker for a
// frequency. Returns an error if the frequency is not supported.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown reminder frequency: %s", frequency)
	}
	return checker, nil
}

// RegisterDuenessChecker registers a custom dueness checker for a new
// frequency type.
func RegisterDuenessChecker(frequency core.Frequency, checker DuenessChecker) {
	duenessStrategies[frequency] = checker
}
