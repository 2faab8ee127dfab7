package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/anvrv/business-keeper/types"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

// MonthsWord declines "месяц" for the given count.
func MonthsWord(months int) string {
	switch {
	case months%100 >= 11 && months%100 <= 14:
		return "месяцев"
	case months%10 == 1:
		return "месяц"
	case months%10 >= 2 && months%10 <= 4:
		return "месяца"
	default:
		return "месяцев"
	}
}

func SenderName(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "Неизвестный"
	}
	return Escape(name)
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func formatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// ==================== подключение ====================

func ConnectedActive(expiresAt *time.Time) string {
	text := "✅ <b>Бот подключён</b>\n\n" +
		"Теперь вам доступно:\n" +
		"• 🔥 Сохранение одноразовых медиа\n" +
		"• 🗑 Просмотр удалённых сообщений\n" +
		"• 📷 Сохранение всех фото/видео\n" +
		"• 🎤 Архивация голосовых сообщений"
	if expiresAt != nil {
		text += fmt.Sprintf("\n\n📅 <b>Подписка до:</b> %s", formatDate(*expiresAt))
	}
	return text + "\n\n💡 Используйте /menu для управления"
}

func ConnectedNeedSubscription() string {
	return "⚠️ <b>Требуется подписка</b>\n\n" +
		"Бот подключён, но не активен.\n" +
		"Для работы необходима активная подписка.\n\n" +
		"💡 Нажмите кнопку ниже для покупки"
}

// ==================== меню ====================

func StartWelcome(hasAccess, isAdmin bool) string {
	status := "❌ <b>Не активна</b>"
	if hasAccess {
		status = "✅ <b>Активна</b>"
	}
	text := "🤖 <b>Добро пожаловать!</b>\n\n"
	if isAdmin {
		text += "👑 <b>Вы администратор</b>\n\n"
	}
	text += fmt.Sprintf("📌 <b>Подписка:</b> %s\n\n", status)
	text += "Бот сохраняет сообщения через Telegram Business.\n\n" +
		"💡 Выберите действие из меню ниже"
	return text
}

func MainMenu() string {
	return "📱 <b>Главное меню</b>"
}

func Help() string {
	return "ℹ️ <b>Справка</b>\n\n" +
		"🔥 <b>Одноразовые медиа</b>\n" +
		"1️⃣ Получите одноразовое фото/видео\n" +
		"2️⃣ Ответьте на него любым текстом\n" +
		"3️⃣ Получите сохранённый файл\n\n" +
		"🗑 <b>Удалённые сообщения</b>\n" +
		"Сохраняются автоматически и присылаются,\n" +
		"когда собеседник их удаляет\n\n" +
		"📖 <b>Подключение</b>\n" +
		"<b>Настройки</b> → <b>Telegram Business</b> → <b>Чат-боты</b>"
}

// ==================== подписка ====================

func SubscriptionAdmin() string {
	return "👑 <b>Администратор</b>\n\n♾️ Безлимитный доступ ко всем функциям бота."
}

func SubscriptionActive(expiresAt time.Time, now time.Time) string {
	daysLeft := int(expiresAt.Sub(now).Hours() / 24)
	return fmt.Sprintf("✅ <b>Подписка активна</b>\n\n"+
		"📅 <b>Действует до:</b> %s\n"+
		"⏳ <b>Осталось дней:</b> %d\n\n"+
		"💡 Вы можете продлить подписку в любой момент",
		formatDateTime(expiresAt), daysLeft)
}

func SubscriptionExpired(expiresAt time.Time) string {
	return fmt.Sprintf("❌ <b>Подписка истекла</b>\n\n"+
		"📅 <b>Истекла:</b> %s\n\n"+
		"Продлите подписку для продолжения работы", formatDate(expiresAt))
}

func SubscriptionNone() string {
	return "❌ <b>Нет подписки</b>\n\n" +
		"Для использования бота необходимо приобрести подписку.\n\n" +
		"💡 Нажмите кнопку ниже для покупки"
}

func PlansList() string {
	return "💎 <b>Тарифные планы</b>\n\n" +
		"📦 <b>1 месяц</b> — 75⭐\n" +
		"📦 <b>2 месяца</b> — 130⭐\n" +
		"📦 <b>3 месяца</b> — 200⭐\n\n" +
		"✨ Подписка открывает сохранение одноразовых медиа,\n" +
		"удалённых сообщений, фото, видео и голосовых.\n\n" +
		"💡 Выберите тариф ниже"
}

func InvoiceTitle(months int) string {
	return fmt.Sprintf("Подписка на %d %s", months, MonthsWord(months))
}

func InvoiceDescription(months int) string {
	return fmt.Sprintf("Подписка на бота для сохранения сообщений на %d %s", months, MonthsWord(months))
}

func PaymentSucceeded(months int, until time.Time) string {
	return fmt.Sprintf("✅ <b>Оплата успешна</b>\n\n"+
		"🎉 Подписка активирована!\n"+
		"📦 <b>Тариф:</b> %d %s\n"+
		"📅 <b>Действует до:</b> %s\n\n"+
		"💚 Спасибо за покупку!", months, MonthsWord(months), formatDateTime(until))
}

func PaymentAlreadyProcessed() string {
	return "⚠️ <b>Платёж уже обработан</b>"
}

func PaymentInvalid() string {
	return "Некорректный платёж"
}

// ==================== архив ====================

func ProtectedCaptured(kind types.MediaKind, senderName, chatName string) string {
	return fmt.Sprintf("🔥 <b>Одноразовое медиа сохранено</b>\n\n"+
		"📁 <b>Тип:</b> %s\n"+
		"👤 <b>От:</b> %s\n"+
		"💬 <b>Чат:</b> %s",
		strings.ToUpper(string(kind)), SenderName(senderName), Escape(chatName))
}

func CapturedMediaCaption(senderName string) string {
	return fmt.Sprintf("🔥 От: <b>%s</b>", SenderName(senderName))
}

func DeletedSummary(count int, chatName string) string {
	return fmt.Sprintf("🗑 <b>Удалённые сообщения</b>\n\n"+
		"📊 <b>Удалено:</b> %d\n"+
		"💬 <b>Чат:</b> %s", count, Escape(chatName))
}

func DeletedText(senderName, text string) string {
	return fmt.Sprintf("👤 <b>%s</b>\n\n%s", SenderName(senderName), Escape(text))
}

func DeletedTextChunk(senderName, chunk string, index, total int) string {
	return fmt.Sprintf("👤 <b>%s</b>\n\n[%d/%d]\n%s", SenderName(senderName), index, total, Escape(chunk))
}

func DeletedMediaCaption(senderName string) string {
	return fmt.Sprintf("🗑 От: <b>%s</b>", SenderName(senderName))
}

// ==================== статистика ====================

func OwnerStats(st *types.OwnerStats) string {
	return fmt.Sprintf("📊 <b>Статистика</b>\n\n"+
		"📨 <b>Всего сообщений:</b> %d\n"+
		"🗑 <b>Удалённых:</b> %d\n"+
		"📷 <b>С медиа:</b> %d\n"+
		"🔥 <b>Одноразовых:</b> %d",
		st.Total, st.Deleted, st.Media, st.Protected)
}

func TotalStats(st *types.TotalStats) string {
	return fmt.Sprintf("📊 <b>Общая статистика</b>\n\n"+
		"👥 <b>Всего пользователей:</b> %d\n"+
		"✅ <b>Активных подписок:</b> %d\n"+
		"📨 <b>Всего сообщений:</b> %d\n"+
		"⭐ <b>Доход (Stars):</b> %d",
		st.Owners, st.ActiveSubs, st.Messages, st.Revenue)
}

// ==================== админ-панель ====================

func AdminPanel() string {
	return "👑 <b>Админ-панель</b>\n\nВыберите действие из меню ниже"
}

func AdminDenied() string {
	return "❌ У вас нет доступа"
}

func AdminUsersHeader() string {
	return "👥 <b>Пользователи</b>\n\nПоследние 10 пользователей:\n\n"
}

func AdminUserLine(firstName string, userID int64, hasSub bool) string {
	status := "❌"
	if hasSub {
		status = "✅"
	}
	return fmt.Sprintf("%s <b>%s</b> (ID: <code>%d</code>)\n", status, SenderName(firstName), userID)
}

func AdminPromptGrant() string {
	return "➕ <b>Выдать подписку</b>\n\n" +
		"Отправьте ID пользователя и количество месяцев через пробел.\n\n" +
		"📝 Пример: <code>123456789 3</code>"
}

func AdminPromptRevoke() string {
	return "➖ <b>Удалить подписку</b>\n\n" +
		"Отправьте ID пользователя.\n\n" +
		"📝 Пример: <code>123456789</code>"
}

func AdminPromptAddAdmin() string {
	return "👑 <b>Добавить админа</b>\n\n" +
		"Отправьте ID пользователя.\n\n" +
		"📝 Пример: <code>123456789</code>"
}

func AdminPromptRemoveAdmin() string {
	return "🗑 <b>Удалить админа</b>\n\n" +
		"Отправьте ID пользователя.\n\n" +
		"📝 Пример: <code>123456789</code>"
}

func AdminGranted(userID int64, months int, until time.Time) string {
	return fmt.Sprintf("✅ <b>Подписка выдана</b>\n\n"+
		"👤 <b>User ID:</b> <code>%d</code>\n"+
		"📦 <b>Срок:</b> %d мес.\n"+
		"📅 <b>До:</b> %s", userID, months, formatDate(until))
}

func AdminRevoked(userID int64) string {
	return fmt.Sprintf("✅ <b>Подписка удалена</b>\n\n👤 <b>User ID:</b> <code>%d</code>", userID)
}

func AdminAdded(userID int64) string {
	return fmt.Sprintf("✅ <b>Админ добавлен</b>\n\n👤 <b>User ID:</b> <code>%d</code>", userID)
}

func AdminRemoved(userID int64) string {
	return fmt.Sprintf("✅ <b>Админ удалён</b>\n\n👤 <b>User ID:</b> <code>%d</code>", userID)
}

func AdminBadFormat() string {
	return "❌ <b>Неверный формат</b>\n\nИспользуйте: <code>ID месяцы</code>"
}

func AdminBadID() string {
	return "❌ <b>Неверный ID</b>"
}

// ==================== ошибки ====================

func ErrorDefault() string {
	return "🚫 <b>Ошибка</b>\nПопробуйте ещё раз."
}

func ErrorUnknownCommand() string {
	return "❓ <b>Команда не найдена</b>"
}
