package view

const StartMessage = `👋 <b>Бот закупки предметов</b>

/status — баланс, скидка и последние покупки
/buy <code>цена|-</code> <code>hash name</code> — купить самый дешёвый лот
/stage <code>itemId</code> [<code>unix</code>] — статус доставки
/history — журнал покупок
/setbalance <code>сумма|unknown</code> — баланс в копейках
/setdiscount <code>0.05</code> — скидка покупателя
/syncbalance — взять баланс с маркета`

const (
	BuyUsage        = "❌ Использование: /buy <code>цена|-</code> <code>hash name</code>"
	BuyInvalidPrice = "❌ Цена должна быть целым неотрицательным числом или <code>-</code>"
	BuyStarted      = "⏳ Покупаю <b>%s</b>..."
	BuySuccess      = "✅ Куплено за <b>%s</b> (в листинге %s)\n🆔 <code>%s</code>"
	BuyFailed       = "❌ <code>%s</code> (%s): %s"

	StageUsage          = "❌ Использование: /stage <code>itemId</code> [<code>unix</code>]"
	StageInvalidItemID  = "❌ Неверный itemId"
	StageInvalidTime    = "❌ Неверное время, ожидается unix timestamp"
	StageResult         = "📦 Предмет <code>%d</code>: <b>%s</b>"
	StageRequestFailure = "❌ Не удалось узнать статус: %s"

	SetBalanceMissingArgument = "❌ Использование: /setbalance <code>сумма|unknown</code>"
	SetBalanceInvalidFormat   = "❌ Сумма должна быть целым неотрицательным числом"
	SetBalanceSuccess         = "✅ Баланс: <b>%s</b>"

	SetDiscountMissingArgument = "❌ Использование: /setdiscount <code>0.05</code>"
	SetDiscountInvalidFormat   = "❌ Скидка должна быть числом от 0 до 1"
	SetDiscountSuccess         = "✅ Скидка: <b>%s</b>"

	SyncBalanceSuccess = "✅ Баланс с маркета: <b>%s</b>"
	SyncBalanceFailed  = "❌ Не удалось получить баланс: %s"

	StatusTemplate = `📊 <b>Статус</b>

💰 <b>Баланс:</b> %s
📉 <b>Скидка:</b> %s`

	HistoryError    = "❌ Не удалось загрузить журнал"
	HistoryEmpty    = "📋 Журнал покупок пуст"
	HistoryTemplate = "📋 <b>Журнал покупок</b> (Стр. %d/%d)\n\n"
	HistorySuccess  = "✅ <b>%s</b> — %s, <code>%s</code>\n"
	HistoryFailure  = "❌ <b>%s</b> — <code>%s</code>\n"
)
