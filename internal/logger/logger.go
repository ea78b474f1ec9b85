package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Options configures the package logger. Output always goes to standard
// error unless a test swaps it: standard output belongs to the launched
// command.
type Options struct {
	Level Level
	// Color forces colour on or off; nil means colour only on a terminal.
	Color *bool
}

var (
	logMu    sync.Mutex
	out      io.Writer = os.Stderr
	minLevel           = LevelInfo
	colorize           = isTerminal(os.Stderr)
	now                = time.Now
)

func Init(opts Options) {
	logMu.Lock()
	defer logMu.Unlock()
	minLevel = opts.Level
	if opts.Color != nil {
		colorize = *opts.Color
	} else {
		colorize = isTerminal(out)
	}
}

// SetOutput redirects log lines and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	logMu.Lock()
	defer logMu.Unlock()
	prev := out
	out = w
	colorize = isTerminal(w)
	return prev
}

func Debug(format string, args ...interface{}) {
	log(LevelDebug, format, args...)
}

func Info(format string, args ...interface{}) {
	log(LevelInfo, format, args...)
}

func Warn(format string, args ...interface{}) {
	log(LevelWarn, format, args...)
}

func Error(format string, args ...interface{}) {
	log(LevelError, format, args...)
}

func log(lvl Level, format string, args ...interface{}) {
	logMu.Lock()
	defer logMu.Unlock()
	if lvl < minLevel {
		return
	}
	ts := now().Format("2006/01/02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	var label, colorStart string
	switch lvl {
	case LevelDebug:
		colorStart = "\033[36m" // Cyan
		label = "[DBUG] "
	case LevelInfo:
		colorStart = "\033[32m" // Green
		label = "[INFO] "
	case LevelWarn:
		colorStart = "\033[33m" // Yellow
		label = "[WARN] "
	case LevelError:
		colorStart = "\033[31m" // Red
		label = "[EROR] "       // 4 chars align
	}
	if !colorize {
		fmt.Fprintf(out, "%s %s%s\n", ts, label, msg)
		return
	}
	fmt.Fprintf(out, "%s %s%s\033[0m%s\n", ts, colorStart, label, msg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
