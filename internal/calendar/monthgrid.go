package calendar

import "time"

// Cell is one square of the month grid. DayNumber is zero for the blank
// cells that push day 1 under its weekday column.
type Cell struct {
	DayNumber        int
	Date             Date
	TaskCount        int
	CompletedCount   int
	IsSelected       bool
	IsToday          bool
	IsFullyCompleted bool
	Holiday          string
}

// IsBlank reports whether the cell is a leading placeholder.
func (c Cell) IsBlank() bool {
	return c.DayNumber == 0
}

// DaysInMonth uses day 0 of the following month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks is the weekday of day 1, Sunday first.
func LeadingBlanks(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// normalizeMonth folds out-of-range months into the right year.
func normalizeMonth(year int, month time.Month) (int, time.Month) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.Year(), first.Month()
}

// ShiftMonth moves (year, month) by delta months.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	return normalizeMonth(year, month+time.Month(delta))
}

// BuildMonth returns the blank cells followed by one cell per day.
func BuildMonth(year int, month time.Month) []Cell {
	year, month = normalizeMonth(year, month)
	blanks := LeadingBlanks(year, month)
	days := DaysInMonth(year, month)

	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, Cell{DayNumber: day, Date: NewDate(year, month, day)})
	}
	return cells
}
