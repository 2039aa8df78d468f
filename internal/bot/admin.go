package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/mkrukov/star-gifts-bot/internal/domain/ledger"
)

func (b *Bot) handleTransfer(ctx context.Context, chatID, tgID int64, args string) {
	if !b.isAdmin(ctx, tgID) {
		b.reply(chatID, "Команда доступна только администратору.")
		return
	}

	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.reply(chatID, "Использование: /transfer &lt;user_id&gt; &lt;amount&gt;")
		return
	}
	target, err1 := strconv.ParseInt(fields[0], 10, 64)
	amount, err2 := strconv.ParseInt(fields[1], 10, 64)
	if err1 != nil || err2 != nil || amount <= 0 {
		b.reply(chatID, "user_id и положительная сумма, например: /transfer 123456789 100")
		return
	}

	payload := fmt.Sprintf("transfer_from_admin_%d", tgID)
	balance, err := b.ledger.Credit(ctx, target, amount, "admin_transfer", payload)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			b.reply(chatID, "Пользователь не найден (он должен сначала нажать /start).")
			return
		}
		b.log.Error("transfer failed", "target", target, "amount", amount, "err", err)
		b.reply(chatID, "Перевод не прошёл.")
		return
	}

	b.log.Info("stars transferred", "admin", tgID, "target", target, "amount", amount)
	b.reply(chatID, fmt.Sprintf("Начислено %d ⭐️ пользователю %d. Его баланс: %d ⭐️.", amount, target, balance))
	b.reply(target, fmt.Sprintf("Вам начислено %d ⭐️. Баланс: %d ⭐️.", amount, balance))
}

func (b *Bot) handleRefund(ctx context.Context, chatID, tgID int64, args string) {
	if !b.isAdmin(ctx, tgID) {
		b.reply(chatID, "Команда доступна только администратору.")
		return
	}

	txID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || txID < 1 {
		b.reply(chatID, "Использование: /refund &lt;transaction_id&gt;")
		return
	}

	orig, err := b.ledger.Refund(ctx, txID)
	switch {
	case err == nil:
		b.log.Info("transaction refunded", "tx_id", txID, "user_id", orig.UserID, "amount", -orig.Amount)
		b.reply(chatID, fmt.Sprintf("Возврат по транзакции #%d: %d ⭐️ пользователю %d.", txID, -orig.Amount, orig.UserID))
		b.reply(orig.UserID, fmt.Sprintf("Возврат %d ⭐️ по операции #%d.", -orig.Amount, txID))
	case errors.Is(err, ledger.ErrNotFound):
		b.reply(chatID, "Транзакция не найдена.")
	case errors.Is(err, ledger.ErrNotRefundable):
		b.reply(chatID, "Вернуть можно только завершённое списание.")
	case errors.Is(err, ledger.ErrAlreadyRefunded):
		b.reply(chatID, "По этой транзакции возврат уже был.")
	default:
		b.log.Error("refund failed", "tx_id", txID, "err", err)
		b.reply(chatID, "Возврат не прошёл.")
	}
}

// handleGiftsDebug — отладочный дамп сохранённого каталога.
func (b *Bot) handleGiftsDebug(ctx context.Context, chatID, tgID int64) {
	if !b.isAdmin(ctx, tgID) {
		b.reply(chatID, "Команда доступна только администратору.")
		return
	}

	gs, err := b.gifts.ListAll(ctx)
	if err != nil {
		b.log.Error("catalog read failed", "err", err)
		b.reply(chatID, "Не удалось прочитать каталог")
		return
	}
	if len(gs) == 0 {
		b.reply(chatID, "Каталог пуст.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Лимитированных подарков: %d\n\n", len(gs))
	for _, g := range gs {
		flag := ""
		if g.IsNew {
			flag = " 🆕"
		}
		fmt.Fprintf(&sb, "%s — %d ⭐️, %d/%d%s\n", g.GiftID, g.Price, g.RemainingCount, g.TotalCount, flag)
	}
	b.reply(chatID, sb.String())
}

// handleExport выгружает журнал операций в xlsx.
func (b *Bot) handleExport(ctx context.Context, chatID, tgID int64) {
	if !b.isAdmin(ctx, tgID) {
		b.reply(chatID, "Команда доступна только администратору.")
		return
	}

	txs, err := b.ledger.ListAll(ctx)
	if err != nil {
		b.log.Error("ledger read failed", "err", err)
		b.reply(chatID, "Не удалось прочитать журнал")
		return
	}
	if len(txs) == 0 {
		b.reply(chatID, "Журнал пуст.")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	headers := []string{"ID", "user_id", "Сумма", "charge_id", "Назначение", "Статус", "Дата"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, t := range txs {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), t.UserID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), t.Amount)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), t.ChargeID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), t.Payload)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), t.Status)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), t.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		b.log.Error("xlsx write failed", "err", err)
		b.reply(chatID, "Не удалось сформировать файл")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "transactions.xlsx",
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("Журнал операций, %d записей", len(txs))
	b.send(doc)
}
