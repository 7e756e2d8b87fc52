package ble

// Logger is the structured, leveled logging interface consumed by the
// att/gatt client stack. ChildLogger derives a logger carrying the given
// fields on every subsequent line, letting a connection-scoped logger tag
// its output with the peer address without the caller re-supplying fields
// at every call site.
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})

	ChildLogger(fields map[string]interface{}) Logger
}

// NopLogger discards everything. Useful as a default when the caller
// doesn't wire a Logger in.
type NopLogger struct{}

func (NopLogger) Debug(string)                     {}
func (NopLogger) Debugf(string, ...interface{})    {}
func (NopLogger) Info(string)                      {}
func (NopLogger) Infof(string, ...interface{})     {}
func (NopLogger) Warnf(string, ...interface{})     {}
func (NopLogger) Error(string)                     {}
func (NopLogger) Errorf(string, ...interface{})    {}
func (NopLogger) ChildLogger(map[string]interface{}) Logger { return NopLogger{} }
