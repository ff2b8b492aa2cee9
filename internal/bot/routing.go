package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/tireshop-bot/internal/dialog"
	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
	"github.com/Spok95/tireshop-bot/internal/domain/users"
	"github.com/Spok95/tireshop-bot/internal/infra/onec"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		u := b.clerk(ctx, msg.From.ID)
		if u == nil {
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitFIO, dialog.Payload{})
			b.askFIO(chatID)
			return
		}
		m := tgbotapi.NewMessage(chatID, "Готово! Для оформления жми «Заказ».")
		m.ReplyMarkup = clerkReplyKeyboard(u.CanManageCatalog())
		b.send(m)
		return

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Команды:\n/start, регистрация\n/order, текущий заказ\n/today, заказы за сегодня\n/refresh [подразделение], обновить каталог из 1С (админ)\n/help, помощь"))
		return

	case "order":
		if b.clerk(ctx, msg.From.ID) == nil {
			b.send(tgbotapi.NewMessage(chatID, "Сначала зарегистрируйтесь: /start"))
			return
		}
		b.showDraft(ctx, chatID, nil)
		return

	case "today":
		if b.clerk(ctx, msg.From.ID) == nil {
			b.send(tgbotapi.NewMessage(chatID, "Сначала зарегистрируйтесь: /start"))
			return
		}
		b.showToday(ctx, chatID)
		return

	case "refresh":
		if !b.clerk(ctx, msg.From.ID).CanManageCatalog() {
			b.send(tgbotapi.NewMessage(chatID, "Доступ запрещён"))
			return
		}
		b.refreshCatalog(ctx, chatID, strings.TrimSpace(msg.CommandArguments()))
		return

	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
		return
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("get state failed", "chat_id", chatID, "err", err)
		return
	}

	if st.State == dialog.StateAwaitFIO {
		b.register(ctx, msg, text)
		return
	}

	u := b.clerk(ctx, msg.From.ID)
	if u == nil {
		b.send(tgbotapi.NewMessage(chatID, "Сначала зарегистрируйтесь: /start"))
		return
	}

	// Нижняя панель
	switch text {
	case "Заказ":
		_ = b.states.Reset(ctx, chatID)
		b.showDraft(ctx, chatID, nil)
		return
	case "Заказы за сегодня":
		b.showToday(ctx, chatID)
		return
	case "Каталог":
		if !u.CanManageCatalog() {
			return
		}
		_ = b.states.Reset(ctx, chatID)
		b.showCatalog(chatID, nil)
		return
	}

	switch st.State {
	case dialog.StateClientName, dialog.StateClientPhone, dialog.StateClientCar:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Пустое значение, введите ещё раз."))
			return
		}
		state := st.State
		if _, _, err := b.engine.Update(ctx, chatID, func(d *order.Draft, _ catalog.Snapshot) error {
			switch state {
			case dialog.StateClientName:
				d.Client.Name = text
			case dialog.StateClientPhone:
				d.Client.Phone = text
			case dialog.StateClientCar:
				d.Client.Car = text
			}
			return nil
		}); err != nil {
			b.loadFailed(chatID, err)
			return
		}
		_ = b.states.Reset(ctx, chatID)
		b.showClient(ctx, chatID, nil)

	case dialog.StateItemQty:
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 {
			b.send(tgbotapi.NewMessage(chatID, "Введите целое неотрицательное число."))
			return
		}
		kindStr, _ := dialog.GetString(st.Payload, "kind")
		idStr, _ := dialog.GetString(st.Payload, "id")
		kind, id := order.Kind(kindStr), catalog.ID(idStr)
		if _, _, err := b.engine.Update(ctx, chatID, func(d *order.Draft, _ catalog.Snapshot) error {
			return order.SetQuantity(d, kind, id, n)
		}); err != nil {
			b.itemFailed(chatID, err)
			return
		}
		_ = b.states.Reset(ctx, chatID)
		b.showItem(ctx, chatID, nil, kind, id)

	case dialog.StateCatSubdivision:
		if !u.CanManageCatalog() {
			return
		}
		_ = b.states.Reset(ctx, chatID)
		b.refreshCatalog(ctx, chatID, text)

	default:
		b.send(tgbotapi.NewMessage(chatID, "Используйте кнопки меню или /help"))
	}
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, _ := b.states.Get(ctx, chatID)
	if st == nil || st.State != dialog.StateCatImportFile {
		b.send(tgbotapi.NewMessage(chatID, "Файл не ожидается. Для загрузки каталога: «Каталог» → «Загрузить Excel»."))
		return
	}
	if !b.clerk(ctx, msg.From.ID).CanManageCatalog() {
		b.send(tgbotapi.NewMessage(chatID, "Доступ запрещён"))
		return
	}
	data, err := b.downloadTelegramFile(msg.Document.FileID)
	if err != nil {
		b.log.Error("download failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось скачать файл."))
		return
	}
	b.importCatalog(ctx, chatID, data)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID
	mid := &cb.Message.MessageID

	u := b.clerk(ctx, cb.From.ID)
	if u == nil {
		_ = b.answerCallback(cb, "Сначала зарегистрируйтесь: /start", true)
		return
	}

	// Общая навигация
	switch data {
	case "nav:cancel":
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, cb.Message.MessageID, "Операция отменена.")
		_ = b.answerCallback(cb, "Отменено", false)
		return
	case "nav:back":
		_ = b.states.Reset(ctx, chatID)
		b.showDraft(ctx, chatID, mid)
		_ = b.answerCallback(cb, "", false)
		return
	}

	switch {
	case strings.HasPrefix(data, "ord:"):
		b.onOrderCallback(ctx, cb, strings.TrimPrefix(data, "ord:"))
	case strings.HasPrefix(data, "mech:"):
		i, err := strconv.Atoi(strings.TrimPrefix(data, "mech:"))
		roster := b.engine.Catalog().Mechanics
		if err != nil || i < 0 || i >= len(roster) {
			_ = b.answerCallback(cb, "Список механиков изменился", false)
			b.showMechanics(ctx, chatID, mid)
			return
		}
		if _, _, err := b.engine.Update(ctx, chatID, func(d *order.Draft, s catalog.Snapshot) error {
			return order.ToggleMechanic(d, roster[i], s)
		}); err != nil {
			b.log.Warn("toggle mechanic failed", "chat_id", chatID, "err", err)
		}
		b.showMechanics(ctx, chatID, mid)
		_ = b.answerCallback(cb, "", false)
	case strings.HasPrefix(data, "cli:"):
		state := map[string]dialog.State{
			"name":  dialog.StateClientName,
			"phone": dialog.StateClientPhone,
			"car":   dialog.StateClientCar,
		}[strings.TrimPrefix(data, "cli:")]
		if state == "" {
			_ = b.answerCallback(cb, "", false)
			return
		}
		_ = b.states.Set(ctx, chatID, state, dialog.Payload{})
		prompt := map[dialog.State]string{
			dialog.StateClientName:  "Введите ФИО клиента сообщением.",
			dialog.StateClientPhone: "Введите телефон клиента сообщением.",
			dialog.StateClientCar:   "Введите марку и номер авто сообщением.",
		}[state]
		b.show(chatID, mid, prompt, navKeyboard(true, true))
		_ = b.answerCallback(cb, "", false)
	case strings.HasPrefix(data, "wh:"):
		b.onWheelsCallback(ctx, cb, strings.TrimPrefix(data, "wh:"))
	case strings.HasPrefix(data, "it:"):
		b.onItemCallback(ctx, cb)
	case strings.HasPrefix(data, "bulk:"):
		b.onBulkCallback(ctx, cb, strings.TrimPrefix(data, "bulk:"))
	case strings.HasPrefix(data, "cat:"):
		if !u.CanManageCatalog() {
			_ = b.answerCallback(cb, "Доступ запрещён", true)
			return
		}
		b.onCatalogCallback(ctx, cb, strings.TrimPrefix(data, "cat:"))
	default:
		_ = b.answerCallback(cb, "", false)
	}
}

func (b *Bot) onOrderCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	mid := &cb.Message.MessageID
	switch action {
	case "mech":
		b.showMechanics(ctx, chatID, mid)
	case "client":
		b.showClient(ctx, chatID, mid)
	case "wheels":
		b.showWheels(ctx, chatID, mid)
	case "mat":
		b.showMaterials(ctx, chatID, mid)
	case "svc":
		b.showServices(ctx, chatID, mid)
	case "reset":
		if _, err := b.engine.Reset(ctx, chatID); err != nil {
			b.loadFailed(chatID, err)
			break
		}
		b.showDraft(ctx, chatID, mid)
	case "submit":
		b.submit(ctx, cb)
		return
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) submit(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	number, err := b.engine.Submit(ctx, chatID)
	switch {
	case errors.Is(err, order.ErrNoMechanics):
		_ = b.answerCallback(cb, "Выберите хотя бы одного механика", true)
	case errors.Is(err, order.ErrClientIncomplete):
		_ = b.answerCallback(cb, "Заполните ФИО, телефон и авто клиента", true)
	case errors.Is(err, order.ErrNoServices):
		_ = b.answerCallback(cb, "Отметьте хотя бы одну услугу", true)
	case err != nil:
		b.log.Error("submit failed", "chat_id", chatID, "err", err)
		_ = b.answerCallback(cb, "Не удалось отправить заказ в 1С, черновик сохранён", true)
	default:
		b.editTextAndClear(chatID, cb.Message.MessageID, fmt.Sprintf("📨 Заказ отправлен в 1С, номер %s.", orDash(number)))
		_ = b.answerCallback(cb, "Отправлено", false)
		b.showDraft(ctx, chatID, nil)
	}
}

func (b *Bot) onWheelsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	if action == "noop" {
		_ = b.answerCallback(cb, "", false)
		return
	}
	parts := splitData(action, 2)
	var reset bool
	_, _, err := b.engine.Update(ctx, chatID, func(d *order.Draft, _ catalog.Snapshot) error {
		switch parts[0] {
		case "r":
			r, err := strconv.Atoi(parts[len(parts)-1])
			if err != nil {
				return err
			}
			order.SetRadius(d, r)
		case "cat":
			order.ToggleCategory(d, catalog.VehicleCategory(parts[len(parts)-1]))
		case "lp":
			order.ToggleLowProfile(d)
		case "rf":
			order.ToggleRunFlat(d)
		case "cnt":
			delta, err := strconv.Atoi(parts[len(parts)-1])
			if err != nil {
				return err
			}
			order.AddWheels(d, delta)
		}
		reset = order.ResetInvalidServices(d)
		return nil
	})
	if err != nil {
		b.log.Warn("wheels update failed", "chat_id", chatID, "data", cb.Data, "err", err)
	}
	b.showWheels(ctx, chatID, &cb.Message.MessageID)
	if reset {
		_ = b.answerCallback(cb, "Неподходящие услуги сброшены", false)
		return
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) onItemCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	mid := &cb.Message.MessageID
	parts := splitData(cb.Data, 4) // it:<action>:<kind>:<rest>
	if len(parts) < 4 {
		_ = b.answerCallback(cb, "", false)
		return
	}
	action, kind, rest := parts[1], order.Kind(parts[2]), parts[3]

	switch action {
	case "open":
		b.showItem(ctx, chatID, mid, kind, catalog.ID(rest))
	case "tog":
		id := catalog.ID(rest)
		_, _, err := b.engine.Update(ctx, chatID, func(d *order.Draft, _ catalog.Snapshot) error {
			checked, err := isSelected(*d, kind, id)
			if err != nil {
				return err
			}
			return order.Toggle(d, kind, id, !checked)
		})
		if err != nil {
			b.itemFailed(chatID, err)
			break
		}
		b.showItem(ctx, chatID, mid, kind, id)
	case "qty":
		qs := splitData(rest, 2)
		n, err := strconv.Atoi(qs[0])
		if err != nil || len(qs) < 2 {
			break
		}
		id := catalog.ID(qs[1])
		if _, _, err := b.engine.Update(ctx, chatID, func(d *order.Draft, _ catalog.Snapshot) error {
			return order.SetQuantity(d, kind, id, n)
		}); err != nil {
			b.itemFailed(chatID, err)
			break
		}
		b.showItem(ctx, chatID, mid, kind, id)
	case "ask":
		_ = b.states.Set(ctx, chatID, dialog.StateItemQty, dialog.Payload{"kind": string(kind), "id": rest})
		b.show(chatID, mid, fmt.Sprintf("Введите количество (0–%d) сообщением.", order.MaxItemQty), navKeyboard(true, true))
	}
	_ = b.answerCallback(cb, "", false)
}

func isSelected(d order.Draft, kind order.Kind, id catalog.ID) (bool, error) {
	switch kind {
	case order.KindMaterial:
		for _, m := range d.Materials {
			if m.ID == id {
				return m.Selected, nil
			}
		}
	case order.KindService:
		for _, s := range d.Services {
			if s.ID == id {
				return s.Selected, nil
			}
		}
	}
	return false, order.ErrUnknownItem
}

func (b *Bot) itemFailed(chatID int64, err error) {
	if errors.Is(err, order.ErrUnknownItem) {
		b.send(tgbotapi.NewMessage(chatID, "Позиция больше не найдена в каталоге."))
		return
	}
	b.loadFailed(chatID, err)
}

func (b *Bot) onBulkCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	mid := &cb.Message.MessageID

	switch {
	case action == "all":
		var counts order.ApplyCounts
		var q int
		if _, _, err := b.engine.Update(ctx, chatID, func(d *order.Draft, _ catalog.Snapshot) error {
			q = d.Wheels.Count
			counts = order.ApplyToAll(d, q)
			return nil
		}); err != nil {
			b.loadFailed(chatID, err)
			break
		}
		b.showServices(ctx, chatID, mid)
		_ = b.answerCallback(cb, fmt.Sprintf("Кол-во %d проставлено: материалов %d, услуг %d. Отметьте нужные.",
			q, counts.Materials, counts.Constant+counts.Variable), true)
		return

	case action == "complex" || strings.HasPrefix(action, "pkg:"):
		var n int
		if _, _, err := b.engine.Update(ctx, chatID, func(d *order.Draft, _ catalog.Snapshot) error {
			if action == "complex" {
				n = order.MarkComplex(d)
				return nil
			}
			step, err := strconv.Atoi(strings.TrimPrefix(action, "pkg:"))
			if err != nil {
				return err
			}
			n = order.MarkPackage(d, step)
			return nil
		}); err != nil {
			b.loadFailed(chatID, err)
			break
		}
		if n == 0 {
			_ = b.answerCallback(cb, "Подходящих услуг этого шага нет", true)
			return
		}
		b.showServices(ctx, chatID, mid)
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) onCatalogCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, action string) {
	chatID := cb.Message.Chat.ID
	switch action {
	case "refresh":
		_ = b.answerCallback(cb, "Загружаю из 1С…", false)
		b.refreshCatalog(ctx, chatID, "")
		return
	case "sub":
		_ = b.states.Set(ctx, chatID, dialog.StateCatSubdivision, dialog.Payload{})
		b.show(chatID, &cb.Message.MessageID, "Введите название подразделения сообщением.", navKeyboard(false, true))
	case "export":
		b.exportCatalog(chatID)
	case "import":
		_ = b.states.Set(ctx, chatID, dialog.StateCatImportFile, dialog.Payload{})
		b.show(chatID, &cb.Message.MessageID,
			"Пришлите Excel-файл каталога (.xlsx) в формате выгрузки: листы services, materials и, по желанию, mechanics.",
			navKeyboard(false, true))
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) showToday(ctx context.Context, chatID int64) {
	orders, err := b.engine.Today(ctx, chatID)
	if err != nil {
		b.log.Error("history failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось получить список заказов."))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, renderHistory(orders)))
}

func (b *Bot) register(ctx context.Context, msg *tgbotapi.Message, fio string) {
	chatID := msg.Chat.ID
	if fio == "" {
		b.askFIO(chatID)
		return
	}
	role := users.RoleClerk
	if msg.From.ID == b.adminChat {
		role = users.RoleAdmin
	}
	u, err := b.users.Upsert(ctx, users.Telegram{ID: msg.From.ID, Username: msg.From.UserName}, fio, role)
	if err != nil {
		b.log.Error("register failed", "tg_id", msg.From.ID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка: не удалось сохранить профиль"))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Готово, %s! Для оформления жми «Заказ».", u.FullName))
	m.ReplyMarkup = clerkReplyKeyboard(u.CanManageCatalog())
	b.send(m)
}

// errText сообщение клерку для ошибок обновления каталога.
func errText(err error) string {
	switch {
	case errors.Is(err, catalog.ErrDuplicateID):
		return "В каталоге повторяются id позиций, каталог не обновлён."
	case errors.Is(err, onec.ErrRefreshFailed):
		return "1С отклонила запрос: " + err.Error()
	default:
		return "Не удалось обновить каталог, прежние данные сохранены."
	}
}
