package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/fatih/color" // Import the fatih/color package for colored console output
	"github.com/rs/zerolog"
)

// Colorized printers for the different log levels, using fatih/color.
// Green for normal progress, bright magenta for warnings, red for errors, cyan for debug.
var (
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgHiMagenta)
	errorColor = color.New(color.FgRed)
	debugColor = color.New(color.FgCyan)
)

var (
	stdout io.Writer = color.Output
	stderr io.Writer = color.Error

	debugEnabled bool

	// fileLog mirrors every console line into the run log. Nop until Init opens the file.
	fileLog = zerolog.Nop()
	logFile *os.File
)

// LogFileRel is the log file location relative to the XDG state directory.
const LogFileRel = "zsh-setup/zsh-setup.log"

// Init enables or disables Debug output and opens the run log under $XDG_STATE_HOME.
// A log file that cannot be opened only produces a warning; console output is unaffected.
func Init(enableDebug bool) {
	debugEnabled = enableDebug

	path, err := xdg.StateFile(LogFileRel)
	if err == nil {
		logFile, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	}
	if err != nil {
		Warn("[WARN] Cannot open log file, logging to console only: %v\n", err)
		return
	}

	level := zerolog.InfoLevel
	if enableDebug {
		level = zerolog.DebugLevel
	}
	fileLog = zerolog.New(logFile).Level(level).With().Timestamp().Logger()
	Debug("[DEBUG] Logging to %s\n", path)
}

// Close flushes and closes the run log.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	fileLog = zerolog.Nop()
}

// SetOutput redirects console output. Used by tests.
func SetOutput(out, errOut io.Writer) {
	stdout = out
	stderr = errOut
}

// SetFileLogger replaces the file logger. Used by tests.
func SetFileLogger(l zerolog.Logger) {
	fileLog = l
}

// DebugEnabled reports whether --debug was given.
func DebugEnabled() bool {
	return debugEnabled
}

// Info prints a green progress line.
func Info(format string, a ...any) {
	emit(stdout, infoColor, zerolog.InfoLevel, format, a...)
}

// Warn prints a magenta warning line on stderr.
func Warn(format string, a ...any) {
	emit(stderr, warnColor, zerolog.WarnLevel, format, a...)
}

// Error prints a red error line on stderr.
func Error(format string, a ...any) {
	emit(stderr, errorColor, zerolog.ErrorLevel, format, a...)
}

// Debug prints a cyan line when debug is enabled. The file log still receives it at debug level.
func Debug(format string, a ...any) {
	if !debugEnabled {
		return
	}
	emit(stdout, debugColor, zerolog.DebugLevel, format, a...)
}

// Writer returns the console writer Info prints to, for streaming command output.
func Writer() io.Writer {
	return stdout
}

func emit(w io.Writer, c *color.Color, level zerolog.Level, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	_, _ = c.Fprint(w, msg)
	fileLog.WithLevel(level).Msg(plain(msg))
}

// plain drops the "[LEVEL] " tag and trailing newline; zerolog records the level itself.
func plain(msg string) string {
	msg = strings.TrimRight(msg, "\n")
	if strings.HasPrefix(msg, "[") {
		if i := strings.Index(msg, "] "); i > 0 {
			msg = msg[i+2:]
		}
	}
	return msg
}
