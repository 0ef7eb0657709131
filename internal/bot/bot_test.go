package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-calendar/internal/calendar"
	"todo-calendar/internal/model"
	"todo-calendar/internal/service"
)

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseCalendarCallback(t *testing.T) {
	cases := []struct {
		data string
		want calendarAction
	}{
		{"cal:prev", calendarAction{kind: calPrev}},
		{"cal:next", calendarAction{kind: calNext}},
		{"cal:today", calendarAction{kind: calToday}},
		{"cal:noop", calendarAction{kind: calNoop}},
		{"cal:day:2024-03-05", calendarAction{kind: calSelect, day: mustDate(t, "2024-03-05")}},
		{"cal:toggle:17", calendarAction{kind: calToggle, taskID: 17}},
	}
	for _, tc := range cases {
		got, err := parseCalendarCallback(tc.data)
		require.NoError(t, err, tc.data)
		assert.Equal(t, tc.want, got, tc.data)
	}

	for _, bad := range []string{"cal:day:2023-02-29", "cal:toggle:x", "cal:zoom", ""} {
		_, err := parseCalendarCallback(bad)
		assert.Error(t, err, bad)
	}
}

func TestCalendarActionApply(t *testing.T) {
	today := mustDate(t, "2024-01-15")
	view := calendar.NewView(today)

	prev, _ := parseCalendarCallback(cbCalPrev)
	view = prev.apply(view, today)
	assert.Equal(t, 2023, view.Year)
	assert.Equal(t, time.December, view.Month)
	assert.Equal(t, today, view.Selected)

	pick, _ := parseCalendarCallback("cal:day:2023-12-24")
	view = pick.apply(view, today)
	assert.Equal(t, mustDate(t, "2023-12-24"), view.Selected)

	toggle, _ := parseCalendarCallback("cal:toggle:3")
	assert.Equal(t, view, toggle.apply(view, today))

	back, _ := parseCalendarCallback(cbCalToday)
	assert.Equal(t, calendar.NewView(today), back.apply(view, today))
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, " ", dayLabel(calendar.Cell{}))
	assert.Equal(t, "7", dayLabel(calendar.Cell{DayNumber: 7}))
	assert.Equal(t, "7•", dayLabel(calendar.Cell{DayNumber: 7, TaskCount: 2, CompletedCount: 1}))
	assert.Equal(t, "7✅", dayLabel(calendar.Cell{DayNumber: 7, TaskCount: 1, CompletedCount: 1, IsFullyCompleted: true}))
	assert.Equal(t, "[(7🎉)]", dayLabel(calendar.Cell{DayNumber: 7, Holiday: "Feriado", IsToday: true, IsSelected: true}))
}

func marchSnapshot(t *testing.T) (calendar.Snapshot, calendar.Date) {
	t.Helper()
	fifth := mustDate(t, "2024-03-05")
	tasks := []calendar.Task{
		{ID: 1, Text: "mercado", IsCompleted: true, DueDate: fifth},
		{ID: 2, Text: "dentista", DueDate: fifth},
		{ID: 3, Text: "relatório", IsCompleted: true, DueDate: mustDate(t, "2024-03-20")},
	}
	return calendar.Render(tasks, 2024, time.March, fifth, fifth), fifth
}

func TestCalendarKeyboardLayout(t *testing.T) {
	snap, _ := marchSnapshot(t)
	kb := calendarKeyboard(snap)

	// nav, today, weekday header, six weeks, two task toggles
	require.Len(t, kb.InlineKeyboard, 11)
	assert.Equal(t, cbCalPrev, *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "MARÇO 2024", kb.InlineKeyboard[0][1].Text)
	assert.Len(t, kb.InlineKeyboard[2], 7)
	assert.Equal(t, "Dom", kb.InlineKeyboard[2][0].Text)

	for _, row := range kb.InlineKeyboard[3:9] {
		assert.Len(t, row, 7)
	}

	// March 2024 starts on a Friday, so day 5 is the third cell of week two.
	fifth := kb.InlineKeyboard[4][2]
	assert.Equal(t, "[(5•)]", fifth.Text)
	assert.Equal(t, "cal:day:2024-03-05", *fifth.CallbackData)
	assert.Equal(t, cbCalNoop, *kb.InlineKeyboard[3][0].CallbackData)

	assert.Equal(t, "cal:toggle:1", *kb.InlineKeyboard[9][0].CallbackData)
	assert.True(t, strings.HasPrefix(kb.InlineKeyboard[10][0].Text, "⬜ #2"))
}

func TestCalendarText(t *testing.T) {
	snap, fifth := marchSnapshot(t)
	snap = snap.WithHolidays(map[calendar.Date]string{mustDate(t, "2024-03-29"): "Sexta-feira Santa"})

	text := calendarText(snap, fifth)
	assert.Contains(t, text, "📅 <b>MARÇO 2024</b>")
	assert.Contains(t, text, "📊 2/3 concluídas · 1 pendentes")
	assert.Contains(t, text, "🎉 29/03 Sexta-feira Santa")
	assert.Contains(t, text, "Tarefas de 05/03/2024:")
	assert.Contains(t, text, "✅ <s>mercado</s> (Concluída)")
	assert.Contains(t, text, "⬜ dentista")

	empty := calendar.Render(nil, 2024, time.April, mustDate(t, "2024-04-02"), fifth)
	text = calendarText(empty, mustDate(t, "2024-04-02"))
	assert.NotContains(t, text, "📊")
	assert.Contains(t, text, "Nenhuma tarefa neste dia.")
}

func TestParseDueInput(t *testing.T) {
	today := mustDate(t, "2024-12-31")
	cases := map[string]string{
		"hoje":       "2024-12-31",
		"Amanhã":     "2025-01-01",
		"amanha":     "2025-01-01",
		"5/3/2024":   "2024-03-05",
		"05/03/2024": "2024-03-05",
		"2024-03-05": "2024-03-05",
	}
	for in, want := range cases {
		got, err := parseDueInput(in, today)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}

	for _, bad := range []string{"31/02/2024", "05/03/24", "ontem", ""} {
		_, err := parseDueInput(bad, today)
		assert.Error(t, err, bad)
	}
}

func TestTaskListMessage(t *testing.T) {
	today := mustDate(t, "2024-03-10")

	text, _, ok := taskListMessage(nil, service.Stats{}, today)
	assert.False(t, ok)
	assert.Contains(t, text, "/nova")

	tasks := []model.Task{
		{ID: 4, Text: "comprar pão", Category: "Compras"},
		{ID: 2, Text: "entregar relatório", Category: "Trabalho", DueDate: mustDate(t, "2024-03-05")},
		{ID: 3, Text: "reunião", Category: "Trabalho", IsCompleted: true, DueDate: today},
	}
	text, markup, ok := taskListMessage(tasks, service.Stats{Total: 3, Completed: 1, Pending: 2}, today)
	require.True(t, ok)
	assert.Contains(t, text, "Total: 3 · Concluídas: 1 · Pendentes: 2")
	assert.Less(t, strings.Index(text, "Trabalho"), strings.Index(text, "Compras"))
	assert.Contains(t, text, "05/03/2024 — <b>atrasada</b>")

	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, "toggle:2", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "delete:2", *markup.InlineKeyboard[0][1].CallbackData)
	assert.True(t, strings.HasPrefix(markup.InlineKeyboard[1][0].Text, "↩️"))
}

func TestShortTextAndTaskID(t *testing.T) {
	assert.Equal(t, "abc", shortText(" abc ", 5))
	assert.Equal(t, "açaí…", shortText("açaí com granola", 5))
	assert.Equal(t, "a b", shortText("a\nb", 10))

	id, err := parseTaskID("toggle:#12", cbTogglePrefix)
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	id, err = parseTaskID(" 7 ", "")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = parseTaskID("delete:abc", cbDeletePrefix)
	assert.Error(t, err)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "✅ Tarefa «a & b» concluída.", stripTags("✅ Tarefa «"+escape("a & b")+"» concluída."))
	assert.Equal(t, "negrito", stripTags("<b>negrito</b>"))
}

func TestInputMatchers(t *testing.T) {
	assert.True(t, isSkipInput(btnSkip))
	assert.True(t, isSkipInput(" pular "))
	assert.True(t, isConfirmInput("Sim"))
	assert.True(t, isCancelInput("não"))
	assert.True(t, isCancelDialogInput(btnCancelDialog))
	assert.False(t, isCancelDialogInput("cancelar"))
}
