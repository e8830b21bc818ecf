package workouts

import (
	"fmt"
	"time"
)

type CalendarDay struct {
	Date       string   `json:"date"`
	Day        int      `json:"day"`
	InMonth    bool     `json:"in_month"`
	IsToday    bool     `json:"is_today"`
	HasWorkout bool     `json:"has_workout"`
	BodyParts  []string `json:"body_parts,omitempty"`
	WorkoutIDs []string `json:"workout_ids,omitempty"`
}

type CalendarMonth struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Weeks [][]CalendarDay `json:"weeks"`
}

// MonthBounds returns the first and the last day of the month as dates.
func MonthBounds(year, month int) (from, to string, err error) {
	if month < 1 || month > 12 {
		return "", "", fmt.Errorf("invalid month %d", month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout), nil
}

// MonthGrid lays the month out in Sunday-first weeks, from the Sunday on or before the 1st
// to the Saturday on or after the last day. Days with workouts carry their body parts.
func MonthGrid(year, month int, workouts []Workout, today time.Time) (*CalendarMonth, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	byDate := make(map[string][]Workout)
	for _, w := range workouts {
		byDate[w.Date] = append(byDate[w.Date], w)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	todayDate := today.Format(DateLayout)

	grid := &CalendarMonth{
		Year:  year,
		Month: month,
	}
	var week []CalendarDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		day := CalendarDay{
			Date:    date,
			Day:     d.Day(),
			InMonth: d.Month() == first.Month(),
			IsToday: date == todayDate,
		}

		seen := make(map[string]bool)
		for _, w := range byDate[date] {
			day.HasWorkout = true
			day.WorkoutIDs = append(day.WorkoutIDs, w.ID)
			if w.BodyPart != "" && !seen[w.BodyPart] {
				seen[w.BodyPart] = true
				day.BodyParts = append(day.BodyParts, w.BodyPart)
			}
		}

		week = append(week, day)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}

	return grid, nil
}
