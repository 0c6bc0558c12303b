package log

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

var (
	isDebug bool

	stdout io.Writer = color.Output
	stderr io.Writer = color.Error

	sectionColor = color.New(color.FgGreen)
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	hintColor    = color.New(color.FgCyan)
)

// Init sets the logging mode.
// In debug mode every message becomes a timestamped line on stderr.
func Init(debug bool) {
	isDebug = debug
}

// SetOutput redirects status output and debug/error output.
// A nil writer leaves the current one in place.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Section prints a major step: [+] Message
func Section(msg string) {
	if isDebug {
		log("INFO", "[+] "+msg)
		return
	}
	_, _ = sectionColor.Fprintf(stdout, "[+] %s\n", msg)
}

// Item prints a list item:     - Message
func Item(msg string) {
	if isDebug {
		log("INFO", "    - "+msg)
		return
	}
	_, _ = fmt.Fprintf(stdout, "    - %s\n", msg)
}

func Success(msg string) {
	if isDebug {
		log("INFO", "✨ "+msg)
		return
	}
	_, _ = successColor.Fprintf(stdout, "✨ %s\n", msg)
}

// Warn goes to stderr so it never interleaves with a rendered tree on stdout.
func Warn(msg string) {
	if isDebug {
		log("WARN", "[!] "+msg)
		return
	}
	_, _ = warnColor.Fprintf(stderr, "[!] %s\n", msg)
}

func Error(msg string) {
	if isDebug {
		log("ERROR", "[✘] "+msg)
		return
	}
	_, _ = errorColor.Fprintf(stderr, "[✘] %s\n", msg)
}

// Hint prints a hint message: -> Message
func Hint(msg string) {
	if isDebug {
		log("INFO", "-> "+msg)
		return
	}
	_, _ = hintColor.Fprintf(stderr, "-> %s\n", msg)
}

// Debug prints only in debug mode.
func Debug(format string, v ...interface{}) {
	if !isDebug {
		return
	}
	log("DEBUG", fmt.Sprintf(format, v...))
}

func log(level, msg string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(stderr, "[%s] %s: %s\n", timestamp, level, msg)
}
