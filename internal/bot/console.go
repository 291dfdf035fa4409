package bot

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Re-Date/schooltgbot/core/logger"
	"log/slog"
)

// runConsole reads operator commands from stdin. It is started once the bot
// is up and exits on "exit", EOF, or context cancellation.
func (a *App) runConsole(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "log "):
			a.consoleLog(ctx, line)
		case line == "help":
			fmt.Println("Доступные команды:")
			fmt.Println(`  log "текст" - отправить текст в дебаг чат`)
			fmt.Println("  exit - завершить работу консольного обработчика")
			fmt.Println("  help - показать эту справку")
			fmt.Println("  restart - перезапустить бота")
		case line == "restart":
			fmt.Println("Перезапуск из консоли...")
			a.notifier.Notify(ctx, "Перезапуск бота из консоли...")
			if err := a.restart(); err != nil {
				fmt.Printf("Ошибка при перезапуске: %v\n", err)
			}
		case line == "exit":
			fmt.Println("Завершение работы консольного обработчика")
			return
		case line == "":
		default:
			fmt.Printf("Неизвестная команда: %s. Введите 'help' для справки.\n", line)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Console.Warn("console reader stopped",
			slog.String("event", "console"),
			slog.String("err", err.Error()),
		)
	}
}

// consoleLog forwards `log "текст"` or `log текст` to the debug chat.
func (a *App) consoleLog(ctx context.Context, line string) {
	rest := line[len("log "):]
	var text string
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end == -1 {
			fmt.Println("Ошибка: отсутствует закрывающая кавычка")
			return
		}
		text = rest[1 : end+1]
	} else {
		text = rest
	}
	if text == "" {
		fmt.Println("Текст для логирования не может быть пустым")
		return
	}
	a.notifier.Notify(ctx, "[КОНСОЛЬ] "+text)
	fmt.Printf("Текст отправлен в дебаг чат: %s\n", text)
}
