package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
	"github.com/Spok95/tireshop-bot/internal/domain/order"
)

/*** SCREENS ***/

func (b *Bot) loadFailed(chatID int64, err error) {
	b.log.Error("draft load failed", "chat_id", chatID, "err", err)
	b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить черновик заказа, попробуйте ещё раз."))
}

func (b *Bot) showDraft(ctx context.Context, chatID int64, messageID *int) {
	d, err := b.engine.Draft(ctx, chatID)
	if err != nil {
		b.loadFailed(chatID, err)
		return
	}
	v := b.engine.View(d)
	b.show(chatID, messageID, renderDraft(d, v, b.engine.Catalog().Subdivision), draftKeyboard())
}

func (b *Bot) showMechanics(ctx context.Context, chatID int64, messageID *int) {
	d, err := b.engine.Draft(ctx, chatID)
	if err != nil {
		b.loadFailed(chatID, err)
		return
	}
	roster := b.engine.Catalog().Mechanics
	if len(roster) == 0 {
		b.show(chatID, messageID, "Список механиков пуст. Обновите каталог из 1С.", navKeyboard(true, false))
		return
	}
	b.show(chatID, messageID, "Выберите механиков, работающих с заказом:", mechanicsKeyboard(roster, d.Mechanics))
}

func (b *Bot) showClient(ctx context.Context, chatID int64, messageID *int) {
	d, err := b.engine.Draft(ctx, chatID)
	if err != nil {
		b.loadFailed(chatID, err)
		return
	}
	text := fmt.Sprintf("Клиент\nФИО: %s\nТелефон: %s\nАвто: %s",
		orDash(d.Client.Name), orDash(d.Client.Phone), orDash(d.Client.Car))
	b.show(chatID, messageID, text, clientKeyboard())
}

func (b *Bot) showWheels(ctx context.Context, chatID int64, messageID *int) {
	d, err := b.engine.Draft(ctx, chatID)
	if err != nil {
		b.loadFailed(chatID, err)
		return
	}
	b.show(chatID, messageID, "Параметры колёс: "+wheelsLine(d.Wheels), wheelsKeyboard(d.Wheels))
}

func (b *Bot) showMaterials(ctx context.Context, chatID int64, messageID *int) {
	d, err := b.engine.Draft(ctx, chatID)
	if err != nil {
		b.loadFailed(chatID, err)
		return
	}
	v := b.engine.View(d)
	b.show(chatID, messageID, renderMaterials(v), materialsKeyboard(v.Materials))
}

func (b *Bot) showServices(ctx context.Context, chatID int64, messageID *int) {
	d, err := b.engine.Draft(ctx, chatID)
	if err != nil {
		b.loadFailed(chatID, err)
		return
	}
	v := b.engine.View(d)
	b.show(chatID, messageID, renderServices(d, v), servicesKeyboard(v.Services))
}

func (b *Bot) showItem(ctx context.Context, chatID int64, messageID *int, kind order.Kind, id catalog.ID) {
	d, err := b.engine.Draft(ctx, chatID)
	if err != nil {
		b.loadFailed(chatID, err)
		return
	}
	switch kind {
	case order.KindMaterial:
		for _, m := range d.Materials {
			if m.ID == id {
				b.show(chatID, messageID, renderItem(m.Name, m.Price, m.Qty, m.Selected, catalog.Radius{}), itemKeyboard(kind, id, m.Selected))
				return
			}
		}
	case order.KindService:
		for _, s := range d.Services {
			if s.ID == id {
				b.show(chatID, messageID, renderItem(s.Name, s.Price, s.Qty, s.Selected, s.Radius), itemKeyboard(kind, id, s.Selected))
				return
			}
		}
	}
	// позиция пропала из каталога после обновления
	b.show(chatID, messageID, "Позиция больше не найдена в каталоге.", navKeyboard(true, false))
}

func (b *Bot) showCatalog(chatID int64, messageID *int) {
	b.show(chatID, messageID, renderCatalog(b.engine.Catalog()), catalogKeyboard())
}
