package logging

// NopLogger discards everything. Useful in tests where log output is noise.
type NopLogger struct{}

func NewNopLogger() Logger { return NopLogger{} }

func (NopLogger) Debug(string, ...Field)                 {}
func (NopLogger) Info(string, ...Field)                  {}
func (NopLogger) Warn(string, ...Field)                  {}
func (NopLogger) Error(string, ...Field)                 {}
func (n NopLogger) WithError(error) Logger               { return n }
func (n NopLogger) WithField(string, interface{}) Logger { return n }
func (n NopLogger) WithFields(...Field) Logger           { return n }
func (NopLogger) Fatalf(string, ...interface{})          {}
