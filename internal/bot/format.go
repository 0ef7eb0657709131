package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"todo-calendar/internal/calendar"
	"todo-calendar/internal/model"
	"todo-calendar/internal/service"
)

const (
	btnSkip          = "⏭️ Pular"
	btnConfirm       = "✅ Confirmar"
	btnCancel        = "↩️ Cancelar"
	btnCancelDialog  = "⏪ Cancelar cadastro"
	menuLabelNewTask = "➕ Nova tarefa"
	menuLabelTasks   = "📋 Tarefas"
	menuLabelCal     = "📅 Calendário"
	menuLabelSummary = "📊 Resumo"
)

func escape(s string) string {
	return html.EscapeString(s)
}

func shortText(text string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func parseTaskID(data, prefix string) (uint, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(data, prefix))
	raw = strings.TrimPrefix(raw, "#")
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

// parseDueInput accepts YYYY-MM-DD, DD/MM/YYYY, "hoje" and "amanhã".
func parseDueInput(text string, today calendar.Date) (calendar.Date, error) {
	value := strings.ToLower(strings.TrimSpace(text))
	switch value {
	case "hoje":
		return today, nil
	case "amanhã", "amanha":
		return today.AddDays(1), nil
	}
	if parts := strings.Split(value, "/"); len(parts) == 3 {
		value = fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
	}
	return calendar.ParseDate(value)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func categoryIcon(name string) string {
	switch name {
	case "Pessoal":
		return "🧩"
	case "Trabalho":
		return "💼"
	case "Estudos":
		return "🎓"
	case "Saúde":
		return "🩺"
	case "Compras":
		return "🛒"
	default:
		return "🏷️"
	}
}

func taskLine(task model.Task, today calendar.Date) string {
	var b strings.Builder
	mark := "⬜"
	if task.IsCompleted {
		mark = "✅"
	}
	b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s\n", mark, task.ID, escape(task.Text)))
	if !task.DueDate.IsZero() {
		due := task.DueDate.Format("02/01/2006")
		switch {
		case task.IsCompleted:
			b.WriteString(fmt.Sprintf("   📆 %s\n", due))
		case task.DueDate.Before(today):
			b.WriteString(fmt.Sprintf("   📆 %s — <b>atrasada</b>\n", due))
		case task.DueDate == today:
			b.WriteString(fmt.Sprintf("   📆 %s — hoje\n", due))
		default:
			b.WriteString(fmt.Sprintf("   📆 %s\n", due))
		}
	}
	return b.String()
}

// taskListMessage groups tasks by category in the fixed category order.
func taskListMessage(tasks []model.Task, stats service.Stats, today calendar.Date) (string, tgbotapi.InlineKeyboardMarkup, bool) {
	if len(tasks) == 0 {
		return "Nenhuma tarefa cadastrada. Use /nova para criar uma.", tgbotapi.InlineKeyboardMarkup{}, false
	}

	groups := make(map[string][]model.Task)
	for _, task := range tasks {
		groups[task.Category] = append(groups[task.Category], task)
	}
	order := append([]string(nil), model.Categories...)
	for name := range groups {
		if _, ok := model.CanonicalCategory(name); !ok {
			order = append(order, name)
		}
	}

	var b strings.Builder
	b.WriteString("📋 <b>Suas tarefas</b>\n")
	b.WriteString(fmt.Sprintf("Total: %d · Concluídas: %d · Pendentes: %d\n\n", stats.Total, stats.Completed, stats.Pending))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range order {
		section, ok := groups[name]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b>\n", categoryIcon(name), escape(name)))
		for _, task := range section {
			b.WriteString(taskLine(task, today))
			toggle := "✅"
			if task.IsCompleted {
				toggle = "↩️"
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s #%d · %s", toggle, task.ID, shortText(task.Text, 20)), fmt.Sprintf("%s%d", cbTogglePrefix, task.ID)),
				tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, task.ID)),
			))
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String()), tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func categoryListText(counts []model.CategoryCount) string {
	var b strings.Builder
	b.WriteString("📂 <b>Categorias</b>\n")
	for _, c := range counts {
		b.WriteString(fmt.Sprintf("%s %s: %d/%d concluídas\n", categoryIcon(c.Name), escape(c.Name), c.Completed, c.Total))
	}
	return strings.TrimSpace(b.String())
}

func addressText(addr service.Address) string {
	var b strings.Builder
	b.WriteString("📍 <b>Endereço encontrado</b>\n")
	b.WriteString(fmt.Sprintf("<b>CEP:</b> %s\n", escape(addr.CEP)))
	b.WriteString(fmt.Sprintf("<b>Rua:</b> %s\n", escape(addr.Street)))
	if addr.Neighborhood != "" {
		b.WriteString(fmt.Sprintf("<b>Bairro:</b> %s\n", escape(addr.Neighborhood)))
	}
	b.WriteString(fmt.Sprintf("<b>Cidade:</b> %s\n", escape(addr.City)))
	b.WriteString(fmt.Sprintf("<b>UF:</b> %s", escape(addr.State)))
	return b.String()
}

func holidayListText(year int, holidays []service.Holiday) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎉 <b>Feriados nacionais de %d</b>\n", year))
	if len(holidays) == 0 {
		b.WriteString("Nenhum feriado encontrado.")
		return b.String()
	}
	for _, h := range holidays {
		b.WriteString(fmt.Sprintf("• %s — %s\n", h.Date.Format("02/01"), escape(h.Name)))
	}
	return strings.TrimSpace(b.String())
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelCal),
			tgbotapi.NewKeyboardButton(menuLabelSummary),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("hoje"),
			tgbotapi.NewKeyboardButton("amanhã"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func categoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, name := range model.Categories {
		row = append(row, tgbotapi.NewKeyboardButton(name))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	row = append(row, tgbotapi.NewKeyboardButton(btnSkip))
	rows = append(rows, row, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "pular" || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirmar" || value == "sim"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancelar" || value == "não" || value == "nao"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancelar cadastro"
}
