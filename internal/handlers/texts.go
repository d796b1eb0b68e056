package handlers

// Message texts are part of the visible contract and match the bot's chat
// surface verbatim.
const (
	textStartGreeting = "Бот-Планировщик к вашим услугам!"

	textAskTaskName = "Напишите, что нужно сделать:"
	textAskTaskTime = "Хорошо. Укажите время (в формате ЧЧ:ММ) или нажмите 'Без времени'"

	textBadTaskTime    = "Непонятный формат времени. Попробуйте '14:30', '18.00' или просто '9'."
	textBadSettingTime = "Неверный формат. Введите время, например: '08:30', '9:00' или '21.00'."

	textTaskCreated       = "Готово! Задача создана:"
	textTaskCreatedNoTime = "Готово! Задача создана (без времени)."
	textBackToMainMenu    = "Вы в главном меню."

	textHelp = "**Справка по боту-планировщику**\n\n" +
		"Я помогу вам не забыть о делах.\n\n" +
		"**Основные команды:**\n" +
		"• `➕ Добавить задачу` - запуск пошагового создания новой задачи.\n" +
		"• `📅 Мои задачи` - просмотр активных задач (на сегодня, завтра и без даты).\n" +
		"• `⚙️ Настройки` - установка времени для утренних и вечерних уведомлений.\n\n" +
		"Бот автоматически напомнит вам о задачах с установленным временем."

	textPickedMorning   = "Вы выбрали 'Изменить утро'."
	textPickedEvening   = "Вы выбрали 'Изменить вечер'."
	textAskMorningTime  = "Введите новое время для утреннего дайджеста (например, 09:00):"
	textAskEveningTime  = "Введите новое время для вечернего обзора (например, 21:00):"
	textEmptyFilterList = "Список пуст!"
	textEmptyGroupList  = "Список пуст."

	textAskPostpone = "🕑 На сколько отложить? (кнопки или текст '1ч', 'завтра в 9'):"
)
