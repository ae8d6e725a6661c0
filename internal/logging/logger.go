// Package logging provides categorized logging for prebuild.
// Every category is a named child of one zap root logger. When debug mode is
// enabled, each category is additionally written as JSON to its own file
// under the configured logs directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config loading
	CategoryBuild     Category = "build"     // Orchestrator steps, environment snapshot
	CategoryNative    Category = "native"    // Shim compilation dispatch
	CategoryAndroid   Category = "android"   // Android dependency resolution
	CategoryLink      Category = "link"      // Link planning
	CategoryResource  Category = "resource"  // Windows resource embedding
	CategorySecrets   Category = "secrets"   // Compile-time constant propagation
	CategoryToolchain Category = "toolchain" // External command execution
	CategoryWatch     Category = "watch"     // Watch mode
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports
type Options struct {
	// DebugMode enables per-category log files under Dir.
	DebugMode bool
	// Categories toggles individual categories. Missing entries are enabled.
	Categories map[string]bool
	// Dir is the logs directory used in debug mode.
	Dir string
}

// Logger is a category-scoped logger with printf-style methods.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex

	root     = zap.NewNop()
	opts     Options
	configMu sync.RWMutex
)

// Configure installs the root logger and category options.
// Should be called once at startup, before any category logger is used.
func Configure(base *zap.Logger, o Options) error {
	CloseAll()

	if base == nil {
		base = zap.NewNop()
	}

	if o.DebugMode && o.Dir != "" {
		if err := os.MkdirAll(o.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	configMu.Lock()
	root = base
	opts = o
	configMu.Unlock()

	Get(CategoryBoot).Debug("logging configured (debug_mode=%v, dir=%s)", o.DebugMode, o.Dir)
	return nil
}

// IsDebugMode returns whether per-category file logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return opts.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	configMu.RLock()
	base := root
	o := opts
	configMu.RUnlock()

	l := &Logger{category: category}
	core := base.Core()

	if o.DebugMode && o.Dir != "" {
		date := time.Now().Format("2006-01-02")
		logPath := filepath.Join(o.Dir, fmt.Sprintf("%s_%s.log", date, category))
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		} else {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(file),
				zapcore.DebugLevel,
			)
			core = zapcore.NewTee(core, fileCore)
			l.file = file
		}
	}

	l.sugar = zap.New(core).Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// With returns a child logger carrying structured key-value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// CloseAll syncs and closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		_ = l.sugar.Sync()
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

// Build logs to the build category
func Build(format string, args ...interface{}) {
	Get(CategoryBuild).Info(format, args...)
}

// BuildDebug logs debug to the build category
func BuildDebug(format string, args ...interface{}) {
	Get(CategoryBuild).Debug(format, args...)
}

// BuildWarn logs warning to the build category
func BuildWarn(format string, args ...interface{}) {
	Get(CategoryBuild).Warn(format, args...)
}

// BuildError logs error to the build category
func BuildError(format string, args ...interface{}) {
	Get(CategoryBuild).Error(format, args...)
}

// Native logs to the native category
func Native(format string, args ...interface{}) {
	Get(CategoryNative).Info(format, args...)
}

// NativeDebug logs debug to the native category
func NativeDebug(format string, args ...interface{}) {
	Get(CategoryNative).Debug(format, args...)
}

// Android logs to the android category
func Android(format string, args ...interface{}) {
	Get(CategoryAndroid).Info(format, args...)
}

// AndroidDebug logs debug to the android category
func AndroidDebug(format string, args ...interface{}) {
	Get(CategoryAndroid).Debug(format, args...)
}

// LinkDebug logs debug to the link category
func LinkDebug(format string, args ...interface{}) {
	Get(CategoryLink).Debug(format, args...)
}

// Resource logs to the resource category
func Resource(format string, args ...interface{}) {
	Get(CategoryResource).Info(format, args...)
}

// ResourceDebug logs debug to the resource category
func ResourceDebug(format string, args ...interface{}) {
	Get(CategoryResource).Debug(format, args...)
}

// ResourceError logs error to the resource category
func ResourceError(format string, args ...interface{}) {
	Get(CategoryResource).Error(format, args...)
}

// SecretsDebug logs debug to the secrets category
func SecretsDebug(format string, args ...interface{}) {
	Get(CategorySecrets).Debug(format, args...)
}

// Toolchain logs to the toolchain category
func Toolchain(format string, args ...interface{}) {
	Get(CategoryToolchain).Info(format, args...)
}

// ToolchainDebug logs debug to the toolchain category
func ToolchainDebug(format string, args ...interface{}) {
	Get(CategoryToolchain).Debug(format, args...)
}

// ToolchainWarn logs warning to the toolchain category
func ToolchainWarn(format string, args ...interface{}) {
	Get(CategoryToolchain).Warn(format, args...)
}

// Watch logs to the watch category
func Watch(format string, args ...interface{}) {
	Get(CategoryWatch).Info(format, args...)
}

// WatchDebug logs debug to the watch category
func WatchDebug(format string, args ...interface{}) {
	Get(CategoryWatch).Debug(format, args...)
}

// WatchError logs error to the watch category
func WatchError(format string, args ...interface{}) {
	Get(CategoryWatch).Error(format, args...)
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
