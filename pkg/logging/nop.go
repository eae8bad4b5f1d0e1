package logging

// NopLogger discards everything. Handy default for tests and for callers
// that do not care about logs.
type NopLogger struct{}

// NewNopLogger creates a new no-op logger.
func NewNopLogger() Interface { return &NopLogger{} }

func (n *NopLogger) WithField(key string, value interface{}) Interface { return n }
func (n *NopLogger) WithError(err error) Interface                     { return n }

func (n *NopLogger) Debug(msg string) {}
func (n *NopLogger) Info(msg string)  {}
func (n *NopLogger) Warn(msg string)  {}
func (n *NopLogger) Error(msg string) {}

func (n *NopLogger) Debugf(format string, args ...interface{}) {}
func (n *NopLogger) Infof(format string, args ...interface{})  {}
func (n *NopLogger) Warnf(format string, args ...interface{})  {}
func (n *NopLogger) Errorf(format string, args ...interface{}) {}
