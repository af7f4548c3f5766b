// Package calendar projects offboarding tasks onto a month grid.
package calendar

import (
	"fmt"
	"time"

	"offboarding-dashboard/internal/model"
)

// DateLayout is the ISO date format tasks are stored in.
const DateLayout = "2006-01-02"

// Weekdays are the column headers, Sunday first.
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Month identifies a displayed calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Prev returns the previous month, wrapping into the previous year.
func (m Month) Prev() Month {
	return MonthOf(m.first().AddDate(0, -1, 0))
}

// Next returns the following month, wrapping into the next year.
func (m Month) Next() Month {
	return MonthOf(m.first().AddDate(0, 1, 0))
}

// DaysIn returns the number of days in the month, leap years included.
func (m Month) DaysIn() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of day 1, 0 for Sunday.
func (m Month) FirstWeekday() int {
	return int(m.first().Weekday())
}

// Contains reports whether the date falls inside the month.
func (m Month) Contains(date time.Time) bool {
	return date.Year() == m.Year && date.Month() == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

func (m Month) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Marker is a task rendered inside a day cell.
type Marker struct {
	TaskID  uint       `json:"taskId"`
	Name    string     `json:"name"`
	Tone    model.Tone `json:"tone"`
	Tooltip string     `json:"tooltip"`
}

// Day is one cell of the grid.
type Day struct {
	Number  int      `json:"number"`
	Today   bool     `json:"today"`
	Markers []Marker `json:"markers"`
}

// Grid is a Sunday-first seven column layout of one month.
// Blanks leading cells precede day 1; trailing cells are not padded.
type Grid struct {
	Month  Month `json:"month"`
	Blanks int   `json:"blanks"`
	Days   []Day `json:"days"`
}

// Weeks splits the grid into rows of seven cells. Blank cells are nil.
func (g Grid) Weeks() [][]*Day {
	var weeks [][]*Day
	var row []*Day
	for i := 0; i < g.Blanks; i++ {
		row = append(row, nil)
	}
	for i := range g.Days {
		row = append(row, &g.Days[i])
		if len(row) == 7 {
			weeks = append(weeks, row)
			row = nil
		}
	}
	if len(row) > 0 {
		weeks = append(weeks, row)
	}
	return weeks
}

// Build computes the grid for month. Tasks outside the month, or with a
// date that does not parse, are left out. today marks the current day.
func Build(tasks []model.Task, month Month, today time.Time) Grid {
	buckets := ByDay(tasks, month)

	grid := Grid{
		Month:  month,
		Blanks: month.FirstWeekday(),
		Days:   make([]Day, month.DaysIn()),
	}
	for i := range grid.Days {
		n := i + 1
		day := Day{
			Number:  n,
			Today:   month.Contains(today) && today.Day() == n,
			Markers: []Marker{},
		}
		for _, task := range buckets[n] {
			day.Markers = append(day.Markers, MarkerFor(task))
		}
		grid.Days[i] = day
	}
	return grid
}

// ByDay groups the tasks dated inside month by day of month, keeping input order.
func ByDay(tasks []model.Task, month Month) map[int][]model.Task {
	out := make(map[int][]model.Task)
	for _, task := range tasks {
		date, err := ParseDate(task.Date)
		if err != nil || !month.Contains(date) {
			continue
		}
		out[date.Day()] = append(out[date.Day()], task)
	}
	return out
}

// MarkerFor renders a task as a calendar marker.
func MarkerFor(task model.Task) Marker {
	return Marker{
		TaskID:  task.ID,
		Name:    task.PersonToOffboard,
		Tone:    model.ToneFor(task.OffboardingType),
		Tooltip: fmt.Sprintf("%s - %s", task.PersonToOffboard, task.OffboardingType),
	}
}

// ParseDate reads a YYYY-MM-DD date as a calendar date with no zone shift.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}
