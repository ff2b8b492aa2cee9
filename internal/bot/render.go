package bot

import (
	"fmt"
	"strings"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/eligibility"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
	"github.com/Spok95/tireshop-bot/internal/engine"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func wheelsLine(w eligibility.Wheels) string {
	var tags []string
	if w.Light {
		tags = append(tags, "легковой")
	}
	if w.Jeep {
		tags = append(tags, "джип")
	}
	if w.LowProfile {
		tags = append(tags, "низкий профиль")
	}
	if w.RunFlat {
		tags = append(tags, "RunFlat")
	}
	s := fmt.Sprintf("R%d, %d шт.", w.Radius, w.Count)
	if len(tags) > 0 {
		s += ", " + strings.Join(tags, ", ")
	}
	return s
}

// renderDraft сводка заказа на главном экране.
func renderDraft(d order.Draft, v engine.View, subdivision string) string {
	var sb strings.Builder
	sb.WriteString("🧾 Заказ")
	if subdivision != "" {
		fmt.Fprintf(&sb, " (%s)", subdivision)
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Механики: %s\n", orDash(strings.Join(d.Mechanics, ", ")))
	fmt.Fprintf(&sb, "Клиент: %s, %s, %s\n", orDash(d.Client.Name), orDash(d.Client.Phone), orDash(d.Client.Car))
	fmt.Fprintf(&sb, "Колёса: %s\n", wheelsLine(d.Wheels))

	var picked []string
	for _, m := range d.Materials {
		if m.Selected && m.Qty > 0 {
			picked = append(picked, fmt.Sprintf("  %s ×%d", m.Name, m.Qty))
		}
	}
	for _, s := range v.Services {
		if s.Selected && s.Qty > 0 {
			picked = append(picked, fmt.Sprintf("  %s ×%d", s.Name, s.Qty))
		}
	}
	if len(picked) > 0 {
		sb.WriteString("\nВыбрано:\n")
		sb.WriteString(strings.Join(picked, "\n"))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nИтого: %s", money(v.Total))
	return sb.String()
}

func renderMaterials(v engine.View) string {
	return fmt.Sprintf("Материалы. Нажмите на позицию, чтобы изменить количество.\nСумма материалов: %s", money(v.MaterialsTotal))
}

func renderServices(d order.Draft, v engine.View) string {
	if len(v.Services) == 0 {
		return fmt.Sprintf("Под параметры колёс (%s) услуг нет.", wheelsLine(d.Wheels))
	}
	return fmt.Sprintf("Услуги для %s.\nСумма услуг: %s\nИтого: %s",
		wheelsLine(d.Wheels), money(v.ServicesTotal), money(v.Total))
}

func renderItem(name string, price float64, qty int, selected bool, r catalog.Radius) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\nЦена: %s\nКоличество: %d\n", name, money(price), qty)
	if r.IsSet() {
		fmt.Fprintf(&sb, "Радиус: %s\n", r.String())
	}
	fmt.Fprintf(&sb, "Отмечено: %s", check(selected))
	return sb.String()
}

func renderHistory(orders []order.Order) string {
	if len(orders) == 0 {
		return "Сегодня заказов ещё не было."
	}
	var sb strings.Builder
	sb.WriteString("Заказы за сегодня:\n")
	var sum float64
	for _, o := range orders {
		status := "✅"
		if o.Status != order.StatusSent {
			status = "⚠️"
		}
		fmt.Fprintf(&sb, "%s %s · %s · %s\n", status, o.CreatedAt.Format("15:04"), orDash(o.Draft.Client.Name), money(o.Total))
		if o.Status == order.StatusSent {
			sum += o.Total
		}
	}
	fmt.Fprintf(&sb, "Всего отправлено: %s", money(sum))
	return sb.String()
}

func renderCatalog(s catalog.Snapshot) string {
	loaded := "-"
	if !s.LoadedAt.IsZero() {
		loaded = s.LoadedAt.Format("02.01.2006 15:04")
	}
	return fmt.Sprintf("Каталог подразделения %s\nМехаников: %d\nМатериалов: %d\nУслуг: %d\nОбновлён: %s",
		orDash(s.Subdivision), len(s.Mechanics), len(s.Materials), len(s.Services), loaded)
}
