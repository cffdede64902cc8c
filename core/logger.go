package core

// Logger is any service that can log application events.
// expected fmt: msg | error, map[string]interface{}
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Notifier surfaces the outcome of a user-initiated operation, the library
// analogue of a toast. Every rolled-back mutation reports through it exactly
// once; successful mutations may report through it as well.
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Warn(string)    {}
func (nopNotifier) Error(string)   {}

// NopNotifier returns a Notifier that discards everything.
func NopNotifier() Notifier { return nopNotifier{} }
