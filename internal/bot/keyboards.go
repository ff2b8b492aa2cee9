package bot

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/eligibility"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
)

// Радиусы в меню колёс
const (
	minRadiusButton = 13
	maxRadiusButton = 24
)

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func clerkReplyKeyboard(admin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{tgbotapi.NewKeyboardButton("Заказ")},
		{tgbotapi.NewKeyboardButton("Заказы за сегодня")},
	}
	if admin {
		rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton("Каталог")})
	}
	return tgbotapi.ReplyKeyboardMarkup{ResizeKeyboard: true, Keyboard: rows}
}

func draftKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👷 Механики", "ord:mech"),
			tgbotapi.NewInlineKeyboardButtonData("👤 Клиент", "ord:client"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛞 Колёса", "ord:wheels"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧴 Материалы", "ord:mat"),
			tgbotapi.NewInlineKeyboardButtonData("🔧 Услуги", "ord:svc"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📨 Отправить в 1С", "ord:submit"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Сбросить", "ord:reset"),
		),
	)
}

// Механики адресуются индексом в штате: имена не влезают в лимит callback_data.
func mechanicsKeyboard(roster, chosen []string) tgbotapi.InlineKeyboardMarkup {
	picked := make(map[string]bool, len(chosen))
	for _, m := range chosen {
		picked[m] = true
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(roster)+1)
	for i, m := range roster {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(check(picked[m])+" "+m, fmt.Sprintf("mech:%d", i)),
		))
	}
	rows = append(rows, navKeyboard(true, false).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func clientKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ФИО", "cli:name"),
			tgbotapi.NewInlineKeyboardButtonData("Телефон", "cli:phone"),
			tgbotapi.NewInlineKeyboardButtonData("Авто", "cli:car"),
		),
		navKeyboard(true, false).InlineKeyboard[0],
	)
}

func wheelsKeyboard(w eligibility.Wheels) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for r := minRadiusButton; r <= maxRadiusButton; r++ {
		label := "R" + strconv.Itoa(r)
		if r == w.Radius {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("wh:r:%d", r)))
		if len(row) == 6 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(check(w.Light)+" Легковой", "wh:cat:"+string(catalog.CategoryLight)),
			tgbotapi.NewInlineKeyboardButtonData(check(w.Jeep)+" Джип", "wh:cat:"+string(catalog.CategoryJeep)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(check(w.LowProfile)+" Низкий профиль", "wh:lp"),
			tgbotapi.NewInlineKeyboardButtonData(check(w.RunFlat)+" RunFlat", "wh:rf"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", "wh:cnt:-1"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d колёс", w.Count), "wh:noop"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "wh:cnt:1"),
		),
		navKeyboard(true, false).InlineKeyboard[0],
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func materialsKeyboard(lines []order.MaterialLine) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(lines)+2)
	for _, l := range lines {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lineLabel(l.Selected, l.Qty, l.Name, l.Price), itemData("open", order.KindMaterial, l.ID)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Проставить всем кол-во колёс", "bulk:all"),
		),
		navKeyboard(true, false).InlineKeyboard[0],
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// servicesKeyboard только подходящие услуги в порядке отображения.
func servicesKeyboard(lines []order.ServiceLine) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(lines)+4)
	for _, l := range lines {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lineLabel(l.Selected, l.Qty, l.Name, l.Price), itemData("open", order.KindService, l.ID)),
		))
	}
	var steps []tgbotapi.InlineKeyboardButton
	for s := 1; s <= 5; s++ {
		steps = append(steps, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(s), fmt.Sprintf("bulk:pkg:%d", s)))
	}
	rows = append(rows,
		steps,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Комплекс 1–5", "bulk:complex"),
			tgbotapi.NewInlineKeyboardButtonData("Всем кол-во колёс", "bulk:all"),
		),
		navKeyboard(true, false).InlineKeyboard[0],
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func itemKeyboard(kind order.Kind, id catalog.ID, selected bool) tgbotapi.InlineKeyboardMarkup {
	qty := func(n int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(n), fmt.Sprintf("it:qty:%s:%d:%s", kind, n, id))
	}
	toggle := "Отметить"
	if selected {
		toggle = "Снять отметку"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(qty(0), qty(1), qty(2), qty(4), qty(8)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggle, itemData("tog", kind, id)),
			tgbotapi.NewInlineKeyboardButtonData("Ввести кол-во", itemData("ask", kind, id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ К списку", listData(kind)),
		),
	)
}

func catalogKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить из 1С", "cat:refresh"),
			tgbotapi.NewInlineKeyboardButtonData("🏢 Другое подразделение", "cat:sub"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Выгрузить Excel", "cat:export"),
			tgbotapi.NewInlineKeyboardButtonData("📥 Загрузить Excel", "cat:import"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
}

// id последним: в нём самом может встретиться ':'
func itemData(action string, kind order.Kind, id catalog.ID) string {
	return fmt.Sprintf("it:%s:%s:%s", action, kind, id)
}

func listData(kind order.Kind) string {
	if kind == order.KindMaterial {
		return "ord:mat"
	}
	return "ord:svc"
}

func lineLabel(selected bool, qty int, name string, price float64) string {
	if qty > 0 {
		return fmt.Sprintf("%s %s ×%d · %s", check(selected), name, qty, money(price))
	}
	return fmt.Sprintf("%s %s · %s", check(selected), name, money(price))
}
