package safe

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
)

// RunWithLog executes fn and logs any panic with a trimmed stack trace.
func RunWithLog(fn func(), component string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", component),
				slog.String("stack", getStackTrace(3)),
			)
		}
	}()

	fn()
}

// Go runs fn on a new goroutine guarded by RunWithLog.
func Go(component string, fn func()) {
	go RunWithLog(fn, component)
}

// Call executes fn and converts a panic into an error.
func Call(component string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", component),
				slog.String("stack", getStackTrace(3)),
			)
			err = fmt.Errorf("%s: panic: %v", component, r)
		}
	}()

	return fn()
}

func getStackTrace(skipFrames int) string {
	lines := strings.Split(string(debug.Stack()), "\n")

	formatted := []string{"Stack trace:"}
	if skipFrames >= len(lines) {
		return formatted[0]
	}
	for i := skipFrames; i < len(lines) && i < skipFrames+20; i++ {
		if line := strings.TrimSpace(lines[i]); line != "" {
			formatted = append(formatted, "  "+line)
		}
	}
	if len(lines) > skipFrames+20 {
		formatted = append(formatted, "  ... (truncated)")
	}
	return strings.Join(formatted, "\n")
}
