package bot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"todo-calendar/internal/calendar"
)

const (
	cbCalendarPrefix = "cal:"
	cbCalPrev        = "cal:prev"
	cbCalNext        = "cal:next"
	cbCalToday       = "cal:today"
	cbCalNoop        = "cal:noop"
	cbCalDayPrefix   = "cal:day:"
	cbCalTogglePref  = "cal:toggle:"
)

type calendarActionKind int

const (
	calNoop calendarActionKind = iota
	calPrev
	calNext
	calToday
	calSelect
	calToggle
)

type calendarAction struct {
	kind   calendarActionKind
	day    calendar.Date
	taskID uint
}

// parseCalendarCallback decodes the callback data of a calendar button.
func parseCalendarCallback(data string) (calendarAction, error) {
	switch {
	case data == cbCalPrev:
		return calendarAction{kind: calPrev}, nil
	case data == cbCalNext:
		return calendarAction{kind: calNext}, nil
	case data == cbCalToday:
		return calendarAction{kind: calToday}, nil
	case data == cbCalNoop:
		return calendarAction{kind: calNoop}, nil
	case strings.HasPrefix(data, cbCalDayPrefix):
		day, err := calendar.ParseDate(strings.TrimPrefix(data, cbCalDayPrefix))
		if err != nil {
			return calendarAction{}, err
		}
		return calendarAction{kind: calSelect, day: day}, nil
	case strings.HasPrefix(data, cbCalTogglePref):
		id, err := parseTaskID(data, cbCalTogglePref)
		if err != nil {
			return calendarAction{}, err
		}
		return calendarAction{kind: calToggle, taskID: id}, nil
	default:
		return calendarAction{}, fmt.Errorf("unknown calendar callback %q", data)
	}
}

// apply moves the view; task toggles leave it unchanged.
func (a calendarAction) apply(view calendar.View, today calendar.Date) calendar.View {
	switch a.kind {
	case calPrev:
		return view.PreviousMonth()
	case calNext:
		return view.NextMonth()
	case calToday:
		return view.GotoToday(today)
	case calSelect:
		return view.Select(a.day)
	default:
		return view
	}
}

// dayLabel is the text of one grid button.
func dayLabel(c calendar.Cell) string {
	if c.IsBlank() {
		return " "
	}
	label := strconv.Itoa(c.DayNumber)
	switch {
	case c.IsFullyCompleted:
		label += "✅"
	case c.TaskCount > 0:
		label += "•"
	}
	if c.Holiday != "" {
		label += "🎉"
	}
	if c.IsToday {
		label = "(" + label + ")"
	}
	if c.IsSelected {
		label = "[" + label + "]"
	}
	return label
}

// calendarKeyboard lays the snapshot out as an inline keyboard.
func calendarKeyboard(snap calendar.Snapshot) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("←", cbCalPrev),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", calendar.MonthName(snap.Month), snap.Year), cbCalNoop),
			tgbotapi.NewInlineKeyboardButtonData("→", cbCalNext),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Hoje", cbCalToday)),
	}

	header := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for _, wd := range calendar.WeekdayLabels {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(wd, cbCalNoop))
	}
	rows = append(rows, header)

	var week []tgbotapi.InlineKeyboardButton
	for _, cell := range snap.Days {
		data := cbCalNoop
		if !cell.IsBlank() {
			data = cbCalDayPrefix + cell.Date.String()
		}
		week = append(week, tgbotapi.NewInlineKeyboardButtonData(dayLabel(cell), data))
		if len(week) == 7 {
			rows = append(rows, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", cbCalNoop))
		}
		rows = append(rows, week)
	}

	for _, task := range snap.SelectedDayTasks {
		mark := "⬜"
		if task.IsCompleted {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s #%d · %s", mark, task.ID, shortText(task.Text, 24)),
				fmt.Sprintf("%s%d", cbCalTogglePref, task.ID),
			),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// calendarText is the message body above the calendar keyboard.
func calendarText(snap calendar.Snapshot, selected calendar.Date) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>%s %d</b>\n", calendar.MonthName(snap.Month), snap.Year))
	if snap.Stats.Total > 0 {
		b.WriteString(fmt.Sprintf("📊 %d/%d concluídas · %d pendentes\n",
			snap.Stats.Completed, snap.Stats.Total, snap.Stats.Pending))
	}

	var holidays []calendar.Cell
	for _, c := range snap.Days {
		if c.Holiday != "" {
			holidays = append(holidays, c)
		}
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].DayNumber < holidays[j].DayNumber })
	for _, c := range holidays {
		b.WriteString(fmt.Sprintf("🎉 %s %s\n", c.Date.Format("02/01"), escape(c.Holiday)))
	}

	if selected.IsZero() {
		return strings.TrimSpace(b.String())
	}
	b.WriteString(fmt.Sprintf("\n<b>Tarefas de %s:</b>\n", selected.Format("02/01/2006")))
	if len(snap.SelectedDayTasks) == 0 {
		b.WriteString("Nenhuma tarefa neste dia.")
		return b.String()
	}
	for _, task := range snap.SelectedDayTasks {
		text := escape(task.Text)
		if task.IsCompleted {
			b.WriteString(fmt.Sprintf("✅ <s>%s</s> (Concluída)\n", text))
		} else {
			b.WriteString(fmt.Sprintf("⬜ %s\n", text))
		}
	}
	return strings.TrimSpace(b.String())
}
