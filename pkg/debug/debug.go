// Package debug provides conditional debug logging for mindmap.
//
// Debug logging is enabled by setting the MINDMAP_DEBUG environment variable
// or by passing --debug on the command line:
//
//	MINDMAP_DEBUG=1 mindmap render plan.yaml -o plan.svg
//
// Output goes to stderr through a zap development logger. The terminal UI owns
// the screen, so MINDMAP_DEBUG_FILE can point the log at a file instead.
// When disabled (default), every function here is a no-op.
//
//	debug.Log("moved %s %s %s", drag, pos, target)
//	debug.Logw("push", "past", h.PastLen())
//	defer debug.Trace("layout.Compute")()
package debug

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	enabled atomic.Bool

	mu     sync.RWMutex
	sugar  *zap.SugaredLogger
	output = "stderr"
)

func init() {
	if path := os.Getenv("MINDMAP_DEBUG_FILE"); path != "" {
		output = path
	}
	if os.Getenv("MINDMAP_DEBUG") != "" {
		SetEnabled(true)
	}
}

func build(path string) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "T"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	l, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		return nil, fmt.Errorf("building debug logger: %w", err)
	}
	return l.Named("mindmap").Sugar(), nil
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns debug logging on or off, building the logger on first use.
func SetEnabled(e bool) {
	if !e {
		enabled.Store(false)
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		l, err := build(output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "debug: %v\n", err)
			return
		}
		sugar = l
	}
	enabled.Store(true)
}

// SetOutput redirects debug output to path ("stderr", "stdout" or a file).
func SetOutput(path string) error {
	l, err := build(path)
	if err != nil {
		return err
	}
	mu.Lock()
	output, sugar = path, l
	mu.Unlock()
	return nil
}

// SetLogger installs l as the backing logger and enables logging. Passing nil
// disables logging.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		sugar = nil
		enabled.Store(false)
		return
	}
	sugar = l.Sugar()
	enabled.Store(true)
}

func logger() *zap.SugaredLogger {
	if !enabled.Load() {
		return nil
	}
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if l := logger(); l != nil {
		l.Debugf(format, args...)
	}
}

// Logw writes a message with structured key/value pairs.
func Logw(msg string, keysAndValues ...any) {
	if l := logger(); l != nil {
		l.Debugw(msg, keysAndValues...)
	}
}

// LogTiming writes how long name took.
func LogTiming(name string, d time.Duration) {
	if l := logger(); l != nil {
		l.Debugw(name+" took "+d.String(), "elapsed", d)
	}
}

// LogIf writes a debug message only if cond holds.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs entry and exit of name with timing.
//
//	defer debug.LogEnterExit("export.SaveAll")()
func LogEnterExit(name string) func() {
	l := logger()
	if l == nil {
		return func() {}
	}
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Trace is an alias for LogEnterExit.
var Trace = LogEnterExit

// Dump logs a value with its type.
func Dump(name string, v any) {
	if l := logger(); l != nil {
		l.Debugf("%s: %T = %+v", name, v, v)
	}
}

// Section logs a section header.
func Section(name string) {
	Log("=== %s ===", name)
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}
