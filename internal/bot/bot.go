package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"todo-calendar/internal/calendar"
	"todo-calendar/internal/config"
	"todo-calendar/internal/model"
	"todo-calendar/internal/repository"
	"todo-calendar/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageText
	stageCategory
	stageDueDate
)

const (
	cbTogglePrefix = "toggle:"
	cbDeletePrefix = "delete:"
)

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

// Services bundles what the bot needs from the service layer.
type Services struct {
	Users      *repository.UserRepository
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Reminders  *service.ReminderService
	Addresses  *service.AddressService
	Holidays   *service.HolidayService
}

// Bot aggregates the Telegram API with the services.
type Bot struct {
	api    *tgbotapi.BotAPI
	svc    Services
	config *config.Config
	now    func() time.Time

	mu            sync.Mutex
	conversations map[int64]*conversationState
	deletions     map[int64]uint
	views         map[int64]calendar.View
}

func New(token string, svc Services, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		svc:           svc,
		config:        cfg,
		now:           time.Now,
		conversations: make(map[int64]*conversationState),
		deletions:     make(map[int64]uint),
		views:         make(map[int64]calendar.View),
	}, nil
}

// Start polls updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return ctx.Err()
}

func (b *Bot) today() calendar.Date {
	return calendar.Today(b.now(), b.config.Location)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cadastro cancelado.")
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	if taskID, ok := b.getDeletion(msg.From.ID); ok {
		return b.handleDeleteResponse(ctx, msg, taskID)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "Não entendi. Use /nova para criar uma tarefa ou /help para ver os comandos.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "nova":
		return b.startNewTask(ctx, msg)
	case "tarefas":
		return b.handleListTasks(ctx, msg)
	case "concluir":
		return b.handleToggleCommand(ctx, msg)
	case "remover":
		return b.handleDeleteCommand(ctx, msg)
	case "calendario":
		return b.handleCalendar(ctx, msg)
	case "cep":
		return b.handleCEP(ctx, msg)
	case "feriados":
		return b.handleHolidays(ctx, msg)
	case "resumo":
		return b.handleSummary(ctx, msg)
	case "categorias":
		return b.handleCategories(ctx, msg)
	case "sair":
		b.forget(msg.From.ID)
		return b.sendTextWithRemove(msg.Chat.ID, "👋 Até logo! Envie /start quando quiser voltar.")
	case "cancelar":
		b.clearConversation(msg.From.ID)
		b.clearDeletion(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Operação cancelada.")
	default:
		return b.sendText(msg.Chat.ID, "Comando não suportado. Veja /help.")
	}
}

const helpText = "ℹ️ <b>Comandos</b>\n" +
	"• /nova — criar tarefa passo a passo\n" +
	"• /tarefas — listar tarefas por categoria\n" +
	"• /concluir &lt;id&gt; — marcar ou desmarcar como concluída\n" +
	"• /remover &lt;id&gt; — apagar uma tarefa\n" +
	"• /calendario — ver o mês com as tarefas\n" +
	"• /resumo — resumo do dia\n" +
	"• /categorias — tarefas por categoria\n" +
	"• /cep &lt;código&gt; — pesquisar endereço\n" +
	"• /feriados [ano] — feriados nacionais\n" +
	"• /cancelar — cancelar o cadastro em andamento\n" +
	"• /sair — encerrar a sessão"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("👋 Olá, %s!\n<b>Eu organizo suas tarefas no calendário.</b>\n\n%s", escape(user.DisplayName()), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelNewTask:
		return true, b.startNewTask(ctx, msg)
	case menuLabelTasks:
		return true, b.handleListTasks(ctx, msg)
	case menuLabelCal:
		return true, b.handleCalendar(ctx, msg)
	case menuLabelSummary:
		return true, b.handleSummary(ctx, msg)
	default:
		return false, nil
	}
}

func (b *Bot) startNewTask(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	log.Printf("[info] start new task conversation user=%d", msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageText})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 Nova tarefa.\n<b>Passo 1:</b> o que precisa ser feito?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageText:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "A descrição não pode ficar vazia.", cancelKeyboard())
		}
		state.input.Text = text
		state.stage = stageCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 <b>Passo 2:</b> escolha a categoria.", categoryKeyboard())
	case stageCategory:
		if !isSkipInput(text) {
			canonical, ok := model.CanonicalCategory(text)
			if !ok {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Categoria desconhecida. Escolha uma das opções.", categoryKeyboard())
			}
			state.input.Category = canonical
		}
		state.stage = stageDueDate
		return b.sendWithReplyMarkup(msg.Chat.ID, "📆 <b>Passo 3:</b> qual a data? Use <code>31/12/2025</code>, <code>2025-12-31</code>, «hoje» ou «amanhã».", skipKeyboard())
	case stageDueDate:
		if !isSkipInput(text) {
			due, err := parseDueInput(text, b.today())
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Data inválida. Use <code>31/12/2025</code> ou «Pular».", skipKeyboard())
			}
			state.input.DueDate = due
		}
		err := b.finishTaskCreation(ctx, msg.From, state.input, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Cadastro reiniciado. Tente de novo com /nova.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, from *tgbotapi.User, input service.TaskInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	task, err := b.svc.Tasks.CreateTask(ctx, user, input)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Não foi possível adicionar a tarefa: %s", escape(err.Error())))
	}

	log.Printf("[info] task created id=%d user=%d due=%s", task.ID, user.ID, task.DueDate)

	var summary strings.Builder
	summary.WriteString("✅ <b>Tarefa salva</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", task.ID))
	summary.WriteString(fmt.Sprintf("• <b>Tarefa:</b> %s\n", escape(task.Text)))
	summary.WriteString(fmt.Sprintf("• <b>Categoria:</b> %s %s\n", categoryIcon(task.Category), escape(task.Category)))
	if !task.DueDate.IsZero() {
		summary.WriteString(fmt.Sprintf("• <b>Data:</b> %s\n", task.DueDate.Format("02/01/2006")))
	}
	return b.sendText(chatID, strings.TrimSpace(summary.String()))
}

func (b *Bot) handleListTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	log.Printf("[info] list tasks for user=%d", user.ID)
	return b.sendTaskList(ctx, msg.Chat.ID, user)
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64, user *model.User) error {
	tasks, err := b.svc.Tasks.ListTasks(ctx, user)
	if err != nil {
		return b.sendText(chatID, "Não foi possível carregar as tarefas.")
	}
	stats, err := b.svc.Tasks.Stats(ctx, user)
	if err != nil {
		return b.sendText(chatID, "Não foi possível carregar as tarefas.")
	}
	text, markup, ok := taskListMessage(tasks, stats, b.today())
	if !ok {
		return b.sendText(chatID, text)
	}
	return b.sendWithReplyMarkup(chatID, text, markup)
}

func (b *Bot) handleToggleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(msg.CommandArguments(), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Informe o ID da tarefa: /concluir 12")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.toggleTask(ctx, user, taskID)
	if err != nil {
		return err
	}
	return b.sendText(msg.Chat.ID, text)
}

// toggleTask flips a task and returns the user-facing outcome.
func (b *Bot) toggleTask(ctx context.Context, user *model.User, taskID uint) (string, error) {
	task, err := b.svc.Tasks.ToggleComplete(ctx, user, taskID, b.now())
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "Tarefa não encontrada.", nil
	case err != nil:
		log.Printf("toggle task %d: %v", taskID, err)
		return "Não foi possível atualizar a tarefa.", nil
	}
	log.Printf("[info] task toggled id=%d user=%d completed=%t", task.ID, user.ID, task.IsCompleted)
	if task.IsCompleted {
		return fmt.Sprintf("✅ Tarefa «%s» concluída.", escape(task.Text)), nil
	}
	return fmt.Sprintf("↩️ Tarefa «%s» voltou para pendente.", escape(task.Text)), nil
}

func (b *Bot) handleDeleteCommand(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(msg.CommandArguments(), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Informe o ID da tarefa: /remover 12")
	}
	return b.askDeleteConfirmation(ctx, msg.Chat.ID, msg.From, taskID)
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, chatID int64, from *tgbotapi.User, taskID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	task, err := b.svc.Tasks.GetTask(ctx, user, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(chatID, "Tarefa não encontrada.")
		}
		return err
	}
	b.setDeletion(from.ID, task.ID)
	text := fmt.Sprintf("Remover a tarefa «%s» (#%d)?", escape(task.Text), task.ID)
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleDeleteResponse(ctx context.Context, msg *tgbotapi.Message, taskID uint) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearDeletion(msg.From.ID)
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return err
		}
		if err := b.svc.Tasks.DeleteTask(ctx, user, taskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return b.sendText(msg.Chat.ID, "Tarefa não encontrada ou já removida.")
			}
			log.Printf("delete task %d: %v", taskID, err)
			return b.sendText(msg.Chat.ID, "Não foi possível remover a tarefa.")
		}
		log.Printf("[info] task deleted id=%d user=%d", taskID, user.ID)
		if err := b.sendText(msg.Chat.ID, "🗑 Tarefa removida."); err != nil {
			return err
		}
		return b.sendTaskList(ctx, msg.Chat.ID, user)
	case isCancelInput(text):
		b.clearDeletion(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Remoção cancelada.")
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Confirme ou cancele a remoção.", confirmKeyboard())
	}
}

func (b *Bot) handleCalendar(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	view := calendar.NewView(b.today())
	b.setView(msg.Chat.ID, view)

	text, markup, err := b.renderCalendar(ctx, user, view)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Não foi possível carregar as tarefas.")
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, text, markup)
}

// renderCalendar loads the user's tasks and draws view. Holidays are
// best-effort: a failed lookup only drops the markers.
func (b *Bot) renderCalendar(ctx context.Context, user *model.User, view calendar.View) (string, tgbotapi.InlineKeyboardMarkup, error) {
	tasks, err := b.svc.Tasks.CalendarTasks(ctx, user)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}
	snap := view.Render(tasks, b.today())

	if b.svc.Holidays != nil {
		hctx, cancel := context.WithTimeout(ctx, b.config.HTTPTimeout)
		holidays, err := b.svc.Holidays.ForMonth(hctx, snap.Year, snap.Month)
		cancel()
		if err != nil {
			log.Printf("holidays %d: %v", snap.Year, err)
		} else {
			snap = snap.WithHolidays(holidays)
		}
	}
	return calendarText(snap, view.Selected), calendarKeyboard(snap), nil
}

func (b *Bot) handleCalendarCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	action, err := parseCalendarCallback(cb.Data)
	if err != nil {
		b.ackCallback(cb, "")
		return err
	}
	if action.kind == calNoop {
		b.ackCallback(cb, "")
		return nil
	}

	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		b.ackCallback(cb, "")
		return err
	}

	chatID := cb.Message.Chat.ID
	today := b.today()
	view, ok := b.getView(chatID)
	if !ok {
		view = calendar.NewView(today)
	}

	notice := ""
	if action.kind == calToggle {
		notice, err = b.toggleTask(ctx, user, action.taskID)
		if err != nil {
			b.ackCallback(cb, "")
			return err
		}
	}
	b.ackCallback(cb, stripTags(notice))

	view = action.apply(view, today)
	b.setView(chatID, view)

	text, markup, err := b.renderCalendar(ctx, user, view)
	if err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		return fmt.Errorf("edit calendar: %w", err)
	}
	return nil
}

func (b *Bot) handleSummary(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.svc.Reminders.DailySummary(ctx, *user, b.now(), b.config.Location)
	if err != nil {
		log.Printf("summary for user %d: %v", user.ID, err)
		return b.sendText(msg.Chat.ID, "Não foi possível gerar o resumo.")
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleCategories(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	counts, err := b.svc.Categories.List(ctx, user)
	if err != nil {
		log.Printf("categories for user %d: %v", user.ID, err)
		return b.sendText(msg.Chat.ID, "Não foi possível carregar as categorias.")
	}
	return b.sendText(msg.Chat.ID, categoryListText(counts))
}

func (b *Bot) handleCEP(ctx context.Context, msg *tgbotapi.Message) error {
	raw := strings.TrimSpace(msg.CommandArguments())
	if raw == "" {
		return b.sendText(msg.Chat.ID, "Informe o CEP: /cep 01001-000")
	}
	lctx, cancel := context.WithTimeout(ctx, b.config.HTTPTimeout)
	defer cancel()

	addr, err := b.svc.Addresses.Lookup(lctx, raw)
	switch {
	case errors.Is(err, service.ErrInvalidCEP):
		return b.sendText(msg.Chat.ID, "CEP inválido (use 8 dígitos).")
	case errors.Is(err, service.ErrCEPNotFound):
		return b.sendText(msg.Chat.ID, "CEP não encontrado.")
	case err != nil:
		log.Printf("cep lookup %q: %v", raw, err)
		return b.sendText(msg.Chat.ID, "Falha ao consultar o CEP.")
	}
	return b.sendText(msg.Chat.ID, addressText(addr))
}

func (b *Bot) handleHolidays(ctx context.Context, msg *tgbotapi.Message) error {
	year := b.today().Year
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		y, err := strconv.Atoi(arg)
		if err != nil || y < 1900 || y > 2199 {
			return b.sendText(msg.Chat.ID, "Ano inválido. Exemplo: /feriados 2025")
		}
		year = y
	}
	hctx, cancel := context.WithTimeout(ctx, b.config.HTTPTimeout)
	defer cancel()

	holidays, err := b.svc.Holidays.Holidays(hctx, year)
	if err != nil {
		log.Printf("holidays %d: %v", year, err)
		return b.sendText(msg.Chat.ID, "Erro ao buscar feriados.")
	}
	return b.sendText(msg.Chat.ID, holidayListText(year, holidays))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbCalendarPrefix):
		return b.handleCalendarCallback(ctx, cb)
	case strings.HasPrefix(data, cbTogglePrefix):
		b.ackCallback(cb, "")
		taskID, err := parseTaskID(data, cbTogglePrefix)
		if err != nil {
			return nil
		}
		user, err := b.ensureUser(ctx, cb.From)
		if err != nil {
			return err
		}
		text, err := b.toggleTask(ctx, user, taskID)
		if err != nil {
			return err
		}
		if err := b.sendText(cb.Message.Chat.ID, text); err != nil {
			return err
		}
		return b.sendTaskList(ctx, cb.Message.Chat.ID, user)
	case strings.HasPrefix(data, cbDeletePrefix):
		b.ackCallback(cb, "")
		taskID, err := parseTaskID(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		return b.askDeleteConfirmation(ctx, cb.Message.Chat.ID, cb.From, taskID)
	default:
		b.ackCallback(cb, "")
		return nil
	}
}

// SendDailyReports sends the daily summary to every known user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.svc.Users.ListAll(ctx)
	if err != nil {
		return err
	}
	now := b.now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.svc.Reminders.DailySummary(ctx, user, now, b.config.Location)
		if err != nil {
			log.Printf("build summary for user %d: %v", user.TelegramID, err)
			continue
		}
		if err := b.sendText(user.TelegramID, text); err != nil {
			log.Printf("send summary to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.svc.Users.Upsert(ctx, repository.Profile{
		TelegramID: from.ID,
		FirstName:  from.FirstName,
		LastName:   from.LastName,
		Username:   from.UserName,
	})
}

func (b *Bot) ackCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		log.Printf("callback ack: %v", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, tgbotapi.NewRemoveKeyboard(true))
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

// forget drops every piece of in-memory state held for a user.
func (b *Bot) forget(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
	delete(b.deletions, userID)
	delete(b.views, userID)
}

func (b *Bot) getDeletion(userID int64) (uint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.deletions[userID]
	return id, ok
}

func (b *Bot) setDeletion(userID int64, taskID uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletions[userID] = taskID
}

func (b *Bot) clearDeletion(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.deletions, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func (b *Bot) getView(chatID int64) (calendar.View, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.views[chatID]
	return v, ok
}

func (b *Bot) setView(chatID int64, v calendar.View) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.views[chatID] = v
}

// stripTags drops HTML markup for plain-text callback notices.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}
