package bot

// User-facing texts. The audience is a Russian-speaking school chat, so all
// replies stay in Russian.
const (
	msgWelcome = "Добро пожаловать! Выберите действия:"

	msgMuted        = "Вы не можете использовать эту команду, так как вы заглушены."
	msgMutedPlain   = "Вы не можете использовать эту команду."
	msgWrongChat    = "Эта команда доступна только в настроенных рабочих чатах."
	msgWrongChatFSM = "Эта функция доступна только в настроенных рабочих чатах."
	msgNoRights     = "У вас нет прав для использования этой команды."

	msgSetFormat = "Неверный формат. Используйте: <code>/set \"предмет\" текст</code> " +
		"или <code>/set предмет текст</code>. Или отправьте фото с такой подписью."
	msgSetPhotoCaption = "Для добавления ДЗ с фото, команда <code>/set предмет текст</code> " +
		"должна быть в <b>подписи к фото</b>."
	msgSetQuoteError = "Ошибка в кавычках для предмета. Используйте: " +
		"<code>/set \"предмет в кавычках\" текст задания</code>"
	msgSubjectEmpty  = "Название предмета не может быть пустым."
	msgDetailsEmpty  = "Текст задания не может быть пустым, если не прикреплена фотография."
	msgDelFormat     = "Неверный формат. Используйте: <code>/del \"предмет\"</code> или <code>/del предмет</code>"
	msgDelKeyEmpty   = "Название предмета для удаления не может быть пустым."
	msgMuteFormat    = "Неверный формат. Используйте: <code>/mute &lt;user_id&gt;</code>"
	msgUnmuteFormat  = "Неверный формат. Используйте: <code>/unmute &lt;user_id&gt;</code>"
	msgBadUserID     = "Укажите корректный ID пользователя (число)."
	msgMsguFormat    = "Неверный формат. Используйте: <code>/msgu &lt;ID группы&gt; &lt;текст сообщения&gt;</code>"
	msgBadGroupID    = "Ошибка в ID группы: ID группы должен быть числом."
	msgRestarting    = "Перезапуск бота..."
	msgListEmpty     = "Список ДЗ пуст."
	msgListChoose    = "Выберите предмет для просмотра:"
	msgDeleteHowTo   = "Чтобы удалить домашнее задание, введи команду:\n<code>/del предмет</code>\n\n" +
		"Или, если название предмета из нескольких слов:\n<code>/del \"название предмета\"</code>\n\n" +
		"Где \"предмет\" - название предмета, которое нужно удалить."

	msgAddPromptSubject = "Хорошо, чтобы добавить ДЗ, сначала <b>введите название предмета</b>.\n\n" +
		"<i>Например: Математика, Английский, \"Изобразительное искусство\"</i>"
	msgAddSubjectEmpty = "Название предмета не может быть пустым. Пожалуйста, введите название предмета."
	msgAddDetailsEmpty = "Текст задания не может быть пустым, если не прикреплена фотография. " +
		"Пожалуйста, отправьте текст или фото с подписью."
	msgAddLostSubject = "Произошла ошибка: предмет не был указан. Пожалуйста, начните добавление ДЗ заново."
	msgAddCancelled   = "❌ Добавление домашнего задания отменено."
	msgNoActiveAdd    = "Нет активной операции добавления ДЗ для отмены."

	msgCallbackFailure = "К сожалению, произошла ошибка.\n\n" +
		"Чтобы её исправить:\n" +
		"1. Перейдите в личные сообщения с ботом: @ShestoyAclassBot\n" +
		"2. Напишите ему команду /start (НЕ БЛОКИРУЙТЕ БОТА / НЕ УДАЛЯЙТЕ ЧАТ С НИМ)\n" +
		"3. Вернитесь сюда и повторите действие.\n\n" +
		"Если бот все еще не работает, то обратитесь к @NotReDate\n"
)
