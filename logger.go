package visit2pdf

// Logger receives key/value progress records.
// *log.Logger from github.com/charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}
func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}

// NopLogger returns a Logger that discards every record.
func NopLogger() Logger { return nopLogger{} }
