package logsvc

import (
	"log"

	"github.com/tdkhoa/sodiem/core"
)

// ConsoleLogger logs to the standard logger only; the Debug-mode stand-in
// for the Rollbar service.
type ConsoleLogger struct {
	std *log.Logger
}

var _ core.Logger = (*ConsoleLogger)(nil)

func NewConsoleLogger(std *log.Logger) *ConsoleLogger {
	return &ConsoleLogger{std: std}
}

func (l ConsoleLogger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s: %s", level, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l ConsoleLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l ConsoleLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l ConsoleLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }

func (l ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL", msg, args)
	l.std.Fatal(msg)
}

// ConsoleNotifier prints user notifications to the standard logger, standing
// in for the UI toast layer.
type ConsoleNotifier struct {
	std *log.Logger
}

var _ core.Notifier = (*ConsoleNotifier)(nil)

func NewConsoleNotifier(std *log.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{std: std}
}

func (n ConsoleNotifier) Success(msg string) { n.std.Printf("NOTIFY success: %s", msg) }
func (n ConsoleNotifier) Warn(msg string)    { n.std.Printf("NOTIFY warning: %s", msg) }
func (n ConsoleNotifier) Error(msg string)   { n.std.Printf("NOTIFY error: %s", msg) }
