package domain

import (
	"fmt"
	"time"
)

// DetectTimeslotConflicts scans a proposed set of weekly timeslots for
// double-bookings. Two slots conflict when they overlap on the same day and
// share a location or a coach; a single pair can violate both constraints and
// then contributes two messages. Intervals are half-open, so a slot ending
// exactly when another begins is not a conflict.
//
// Inputs are assumed pre-validated (day range, HH:MM format). The scan is
// O(n²) over the slot list, which stays small for a weekly gym schedule.
func DetectTimeslotConflicts(slots []Timeslot) []string {
	conflicts := make([]string, 0)
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if a.DayOfWeek != b.DayOfWeek {
				continue
			}
			if !timeslotsOverlap(a, b) {
				continue
			}
			if a.LocationID != "" && a.LocationID == b.LocationID {
				conflicts = append(conflicts, fmt.Sprintf(
					"location %s double-booked on day %d: %s-%s overlaps %s-%s",
					a.LocationID, a.DayOfWeek, a.StartTime, a.EndTime, b.StartTime, b.EndTime))
			}
			if a.CoachID != "" && a.CoachID == b.CoachID {
				conflicts = append(conflicts, fmt.Sprintf(
					"coach %s double-booked on day %d: %s-%s overlaps %s-%s",
					a.CoachID, a.DayOfWeek, a.StartTime, a.EndTime, b.StartTime, b.EndTime))
			}
		}
	}
	return conflicts
}

func timeslotsOverlap(a, b Timeslot) bool {
	aStart, aEnd := clockRange(a)
	bStart, bEnd := clockRange(b)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// clockRange parses HH:MM strings onto a fixed calendar date so slots compare
// purely as time-of-day.
func clockRange(s Timeslot) (time.Time, time.Time) {
	start, _ := time.Parse("15:04", s.StartTime)
	end, _ := time.Parse("15:04", s.EndTime)
	return start, end
}
