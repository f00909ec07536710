// Package logger is the application's logging context. Records go through
// log/slog and are written to the console, to an hourly log file and to an
// in-memory sink that feeds the log panel.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// FileNameLayout names the log file after the local hour it was opened in.
const FileNameLayout = "06010215"

type Config struct {
	Level slog.Level
	// Dir receives the log file. Empty disables file output.
	Dir string
	// Console enables the console appender writing to Output.
	Console bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Now is used for the file name. Defaults to time.Now.
	Now func() time.Time
}

// Context owns the handler, its log file and the panel sink. It is created
// once by the entry point and passed down as a *slog.Logger.
type Context struct {
	logger *slog.Logger
	sink   *Sink
	file   *os.File
	path   string
}

func Initialize(cfg Config) (*Context, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	ctx := &Context{sink: NewSink()}
	var appenders []appender

	if cfg.Console {
		appenders = append(appenders, newConsoleAppender(cfg.Output))
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		ctx.path = filepath.Join(cfg.Dir, cfg.Now().Format(FileNameLayout))
		f, err := os.OpenFile(ctx.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		ctx.file = f
		appenders = append(appenders, &fileAppender{f: f})
	}

	appenders = append(appenders, &sinkAppender{sink: ctx.sink})

	level := new(slog.LevelVar)
	level.Set(cfg.Level)
	ctx.logger = slog.New(newHandler(level, appenders...))
	return ctx, nil
}

func (c *Context) Logger() *slog.Logger { return c.logger }
func (c *Context) Sink() *Sink          { return c.sink }

// Path is the log file path, empty when file output is disabled.
func (c *Context) Path() string { return c.path }

// Attach connects the log panel. Records logged before this call are
// delivered first.
func (c *Context) Attach(v *Visualizer) {
	c.sink.Attach(v)
}

func (c *Context) Close() error {
	c.sink.Detach()
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(nopHandler{})
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// Fatal logs at LevelFatal with the caller's source location.
func Fatal(l *slog.Logger, msg string, args ...any) {
	ctx := context.Background()
	if !l.Enabled(ctx, LevelFatal) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	r := slog.NewRecord(time.Now(), LevelFatal, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}
