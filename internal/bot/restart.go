package bot

import (
	"fmt"
	"os"
	"syscall"

	"github.com/Re-Date/schooltgbot/core/logger"
	"log/slog"
)

// reexec replaces the current process with a fresh copy of itself, keeping
// arguments and environment. On success it does not return.
func reexec() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	logger.L.With("component", "app").Info("restarting process",
		slog.String("event", "restart"),
		slog.String("path", exe),
	)
	// Flush buffered log output before the process image is replaced.
	_ = logger.Shutdown()
	return syscall.Exec(exe, os.Args, os.Environ())
}
