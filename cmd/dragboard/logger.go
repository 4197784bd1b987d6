package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/dragboard/internal/config"
)

// loggerOptions selects the sinks a runtimeLogger writes to.
type loggerOptions struct {
	Console io.Writer
	AppName string
	DevMode bool
	Logging config.LoggingConfig
	Now     func() time.Time
}

// runtimeLogger writes runtime events to the terminal and, in dev mode, to a
// daily logfmt file. The terminal sink detaches while the board owns the screen.
type runtimeLogger struct {
	console  *charmLog.Logger
	file     *charmLog.Logger
	detached bool
	logFile  *os.File
	logPath  string
}

// newRuntimeLogger builds the console sink and, when enabled, opens the dev file.
func newRuntimeLogger(opts loggerOptions) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(opts.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", opts.Logging.Level, err)
	}
	if opts.Console == nil {
		opts.Console = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	l := &runtimeLogger{
		console: charmLog.NewWithOptions(opts.Console, sinkOptions(level, opts.AppName, charmLog.TextFormatter)),
	}
	if !opts.DevMode || !opts.Logging.DevFile.Enabled {
		return l, nil
	}

	path, err := devLogFilePath(opts.Logging.DevFile.Dir, opts.AppName, opts.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	f, err := openDevLog(path)
	if err != nil {
		return nil, err
	}
	l.file = charmLog.NewWithOptions(f, sinkOptions(level, opts.AppName, charmLog.LogfmtFormatter))
	l.logFile = f
	l.logPath = path
	return l, nil
}

func sinkOptions(level charmLog.Level, prefix string, formatter charmLog.Formatter) charmLog.Options {
	return charmLog.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	}
}

// openDevLog opens path for appending, creating its directory.
func openDevLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}
	return f, nil
}

// DevLogPath returns the dev log file path, or "" when file logging is off.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.logPath
}

// DetachConsole stops terminal output until AttachConsole is called.
func (l *runtimeLogger) DetachConsole() {
	if l != nil {
		l.detached = true
	}
}

// AttachConsole resumes terminal output.
func (l *runtimeLogger) AttachConsole() {
	if l != nil {
		l.detached = false
	}
}

// Close closes the dev file. Later events reach the console only.
func (l *runtimeLogger) Close() error {
	if l == nil || l.logFile == nil {
		return nil
	}
	err := l.logFile.Close()
	l.logFile = nil
	l.file = nil
	return err
}

func (l *runtimeLogger) log(level charmLog.Level, msg string, keyvals ...any) {
	if l == nil {
		return
	}
	if !l.detached {
		l.console.Log(level, msg, keyvals...)
	}
	if l.file != nil {
		l.file.Log(level, msg, keyvals...)
	}
}

func (l *runtimeLogger) Debug(msg string, keyvals ...any) { l.log(charmLog.DebugLevel, msg, keyvals...) }
func (l *runtimeLogger) Info(msg string, keyvals ...any)  { l.log(charmLog.InfoLevel, msg, keyvals...) }
func (l *runtimeLogger) Warn(msg string, keyvals ...any)  { l.log(charmLog.WarnLevel, msg, keyvals...) }
func (l *runtimeLogger) Error(msg string, keyvals ...any) { l.log(charmLog.ErrorLevel, msg, keyvals...) }

// devLogFilePath resolves the per-day dev log file. Relative dirs anchor at
// the nearest workspace root above the working directory.
func devLogFilePath(dir, appName string, now time.Time) (string, error) {
	base := strings.TrimSpace(dir)
	if base == "" {
		base = ".dragboard/log"
	}
	if !filepath.IsAbs(base) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working dir: %w", err)
		}
		base = filepath.Join(workspaceRootFrom(cwd), base)
	}
	name := sanitizeLogFileStem(appName) + "-" + now.Format("20060102") + ".log"
	return filepath.Join(filepath.Clean(base), name), nil
}

// workspaceRootFrom walks up from start to the nearest go.mod or .git entry,
// falling back to start itself.
func workspaceRootFrom(start string) string {
	start = filepath.Clean(strings.TrimSpace(start))
	for dir := start; ; {
		for _, marker := range []string{"go.mod", ".git"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

var logStemReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")

// sanitizeLogFileStem turns an app name into a safe file-name segment.
func sanitizeLogFileStem(appName string) string {
	stem := strings.Trim(logStemReplacer.Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		return "dragboard"
	}
	return stem
}
