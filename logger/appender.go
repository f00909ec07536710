package logger

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

const (
	ansiReset = "\x1b[0m"
	ansiFatal = "\x1b[1;37;41m"
	ansiError = "\x1b[1;31m"
	ansiWarn  = "\x1b[1;33m"
	ansiDebug = "\x1b[36m"
)

func ansiColor(level slog.Level) string {
	switch {
	case level >= LevelFatal:
		return ansiFatal
	case level >= slog.LevelError:
		return ansiError
	case level >= slog.LevelWarn:
		return ansiWarn
	case level >= slog.LevelInfo:
		return ""
	default:
		return ansiDebug
	}
}

type consoleAppender struct {
	w     io.Writer
	color bool
}

func newConsoleAppender(w io.Writer) *consoleAppender {
	return &consoleAppender{w: w, color: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *consoleAppender) append(r record) error {
	line := formatFull(r)
	if a.color {
		if c := ansiColor(r.level); c != "" {
			line = c + line[:len(line)-1] + ansiReset + "\n"
		}
	}
	_, err := io.WriteString(a.w, line)
	return err
}

type fileAppender struct {
	f *os.File
}

func (a *fileAppender) append(r record) error {
	_, err := io.WriteString(a.f, formatFull(r))
	return err
}

type sinkAppender struct {
	sink *Sink
}

func (a *sinkAppender) append(r record) error {
	a.sink.Write(Entry{Color: SeverityColor(r.level), Text: formatSimple(r)})
	return nil
}
