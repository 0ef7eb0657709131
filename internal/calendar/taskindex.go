package calendar

import "time"

// Task is the read-only view of a to-do item the calendar works on.
// A zero DueDate means the task is unscheduled.
type Task struct {
	ID          uint
	Text        string
	Category    string
	IsCompleted bool
	DueDate     Date
}

// MonthStats aggregates the tasks due within one month.
type MonthStats struct {
	Total     int
	Completed int
	Pending   int
}

// DayCount holds per-day totals.
type DayCount struct {
	Total     int
	Completed int
}

func (t Task) due() (Date, bool) {
	return Normalize(t.DueDate)
}

// StatsForMonth counts the tasks whose due date falls in year/month.
func StatsForMonth(tasks []Task, year int, month time.Month) MonthStats {
	var stats MonthStats
	for _, task := range tasks {
		d, ok := task.due()
		if !ok || !d.InMonth(year, month) {
			continue
		}
		stats.Total++
		if task.IsCompleted {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}

// TasksForDay keeps the tasks due on day, in input order.
func TasksForDay(tasks []Task, day Date) []Task {
	want, ok := Normalize(day)
	if !ok {
		return nil
	}
	var out []Task
	for _, task := range tasks {
		if d, ok := task.due(); ok && d == want {
			out = append(out, task)
		}
	}
	return out
}

// IndexByDay counts tasks per day of year/month in a single pass.
func IndexByDay(tasks []Task, year int, month time.Month) map[int]DayCount {
	index := make(map[int]DayCount)
	for _, task := range tasks {
		d, ok := task.due()
		if !ok || !d.InMonth(year, month) {
			continue
		}
		c := index[d.Day]
		c.Total++
		if task.IsCompleted {
			c.Completed++
		}
		index[d.Day] = c
	}
	return index
}
