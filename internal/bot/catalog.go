package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/tireshop-bot/internal/dialog"
	"github.com/Spok95/tireshop-bot/internal/domain/catalog"
)

// refreshCatalog выгрузка справочников из 1С. Пустое подразделение означает текущее.
func (b *Bot) refreshCatalog(ctx context.Context, chatID int64, subdivision string) {
	snap, err := b.engine.Refresh(ctx, subdivision)
	if err != nil {
		b.log.Error("catalog refresh failed", "chat_id", chatID, "subdivision", subdivision, "err", err)
		b.send(tgbotapi.NewMessage(chatID, errText(err)))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, "✅ Каталог обновлён.\n"+renderCatalog(snap)))
}

func (b *Bot) importCatalog(ctx context.Context, chatID int64, data []byte) {
	raw, err := catalog.ReadXLSX(data)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Не удалось прочитать Excel-файл: %v", err)))
		return
	}
	snap, err := b.engine.Import(ctx, raw)
	if err != nil {
		b.log.Error("catalog import failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, errText(err)))
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateIdle, dialog.Payload{})
	b.send(tgbotapi.NewMessage(chatID, "✅ Каталог загружен из файла.\n"+renderCatalog(snap)))
}

func (b *Bot) exportCatalog(chatID int64) {
	snap := b.engine.Catalog()
	data, err := catalog.WriteXLSX(snap)
	if err != nil {
		b.log.Error("catalog export failed", "chat_id", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось сформировать файл."))
		return
	}
	fileName := fmt.Sprintf("catalog_%s.xlsx", time.Now().Format("20060102_1504"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: data,
	})
	doc.Caption = "Каталог подразделения " + orDash(snap.Subdivision)
	b.send(doc)
}
