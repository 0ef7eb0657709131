// Package calendar computes the month view shown to a user: the grid of
// days, the per-day task badges and the month statistics. Everything here
// is a pure function of its inputs.
package calendar

import "time"

var monthNames = [...]string{
	"JANEIRO", "FEVEREIRO", "MARÇO", "ABRIL", "MAIO", "JUNHO",
	"JULHO", "AGOSTO", "SETEMBRO", "OUTUBRO", "NOVEMBRO", "DEZEMBRO",
}

// WeekdayLabels are the grid column headers, Sunday first.
var WeekdayLabels = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// MonthName returns the upper-case Portuguese month name.
func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthNames[month-1]
}

// Snapshot is everything needed to draw one month.
type Snapshot struct {
	Year             int
	Month            time.Month
	Days             []Cell
	Stats            MonthStats
	SelectedDayTasks []Task
}

// Render builds the month view for viewedYear/viewedMonth.
func Render(tasks []Task, viewedYear int, viewedMonth time.Month, selected, today Date) Snapshot {
	year, month := normalizeMonth(viewedYear, viewedMonth)
	index := IndexByDay(tasks, year, month)

	cells := BuildMonth(year, month)
	for i := range cells {
		c := &cells[i]
		if c.IsBlank() {
			continue
		}
		counts := index[c.DayNumber]
		c.TaskCount = counts.Total
		c.CompletedCount = counts.Completed
		c.IsSelected = SameDay(c.Date, selected)
		c.IsToday = SameDay(c.Date, today)
		c.IsFullyCompleted = c.TaskCount > 0 && c.CompletedCount == c.TaskCount
	}

	return Snapshot{
		Year:             year,
		Month:            month,
		Days:             cells,
		Stats:            StatsForMonth(tasks, year, month),
		SelectedDayTasks: TasksForDay(tasks, selected),
	}
}

// Cell returns the cell for day, if it is part of the grid.
func (s Snapshot) Cell(day int) (Cell, bool) {
	for _, c := range s.Days {
		if c.DayNumber == day {
			return c, true
		}
	}
	return Cell{}, false
}

// WithHolidays returns a copy of s with holiday names attached to cells.
func (s Snapshot) WithHolidays(holidays map[Date]string) Snapshot {
	if len(holidays) == 0 {
		return s
	}
	days := make([]Cell, len(s.Days))
	copy(days, s.Days)
	for i := range days {
		if days[i].IsBlank() {
			continue
		}
		if name, ok := holidays[days[i].Date]; ok {
			days[i].Holiday = name
		}
	}
	s.Days = days
	return s
}

// View is the navigation state of a calendar: the month on screen and the
// selected day. Transitions return a new View.
type View struct {
	Year     int
	Month    time.Month
	Selected Date
}

// NewView opens on today's month with today selected.
func NewView(today Date) View {
	return View{}.GotoToday(today)
}

func (v View) Select(day Date) View {
	v.Selected = day
	return v
}

func (v View) PreviousMonth() View {
	v.Year, v.Month = ShiftMonth(v.Year, v.Month, -1)
	return v
}

func (v View) NextMonth() View {
	v.Year, v.Month = ShiftMonth(v.Year, v.Month, 1)
	return v
}

// GotoToday shows today's month and selects today.
func (v View) GotoToday(today Date) View {
	return View{Year: today.Year, Month: today.Month, Selected: today}
}

// Render draws the current view.
func (v View) Render(tasks []Task, today Date) Snapshot {
	return Render(tasks, v.Year, v.Month, v.Selected, today)
}
