package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{DEBUG: "DEBUG", INFO: "INFO", WARN: "WARN", ERROR: "ERROR"}

var levelColors = map[Level]string{
	DEBUG: "\033[36m",
	INFO:  "\033[32m",
	WARN:  "\033[33m",
	ERROR: "\033[31m",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseLevel parses a string into a Level. Unknown names mean INFO.
func ParseLevel(s string) Level {
	s = strings.ToUpper(s)
	if s == "WARNING" {
		return WARN
	}
	for lvl, name := range levelNames {
		if name == s {
			return lvl
		}
	}
	return INFO
}

// Format selects how lines are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses a LOG_FORMAT value. Anything but "json" means text.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// sink is shared by a logger and everything derived from it so lines from
// one session never interleave.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

// Logger is a leveled logger carrying a prefix and key/value fields.
// Derived loggers share the parent's output.
type Logger struct {
	sink     *sink
	level    Level
	format   Format
	prefix   string
	fields   map[string]any
	colorize bool
	now      func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets the output destination.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.sink = &sink{out: w} }
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

// WithColors enables or disables colorized level names in text output.
func WithColors(enabled bool) Option {
	return func(l *Logger) { l.colorize = enabled }
}

// WithFormat switches between text and JSON lines.
func WithFormat(f Format) Option {
	return func(l *Logger) { l.format = f }
}

// WithTime replaces the timestamp source.
func WithTime(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New creates a new Logger with the given options.
func New(opts ...Option) *Logger {
	l := &Logger{
		sink:     &sink{out: os.Stdout},
		level:    INFO,
		format:   FormatText,
		fields:   map[string]any{},
		colorize: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var defaultLogger = New()

// SetDefault sets the default logger.
func SetDefault(l *Logger) { defaultLogger = l }

func Default() *Logger { return defaultLogger }

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(WithOutput(io.Discard), WithLevel(ERROR+1), WithColors(false))
}

func (l *Logger) derive(prefix string, extra map[string]any) *Logger {
	fields := make(map[string]any, len(l.fields)+len(extra))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	cp := *l
	cp.prefix = prefix
	cp.fields = fields
	return &cp
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.derive(l.prefix, map[string]any{key: value})
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.derive(l.prefix, fields)
}

// WithPrefix returns a new logger with the given prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return l.derive(prefix, nil)
}

// ForSession tags a logger with the session and game it is working on.
func (l *Logger) ForSession(sessionID, game string) *Logger {
	return l.derive(l.prefix, map[string]any{"session_id": sessionID, "game": game})
}

func (l *Logger) Debug(msg string, args ...any) { l.log(DEBUG, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(INFO, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(WARN, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(ERROR, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...any) {
	if level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	caller := ""
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("%s:%d", file[strings.LastIndex(file, "/")+1:], line)
	}

	var line string
	if l.format == FormatJSON {
		line = l.jsonLine(level, caller, msg)
	} else {
		line = l.textLine(level, caller, msg)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	io.WriteString(l.sink.out, line)
}

func (l *Logger) textLine(level Level, caller, msg string) string {
	var sb strings.Builder
	sb.WriteString(l.now().Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" ")
	if l.colorize {
		fmt.Fprintf(&sb, "%s%-5s\033[0m ", levelColors[level], level)
	} else {
		fmt.Fprintf(&sb, "%-5s ", level)
	}
	if l.prefix != "" {
		fmt.Fprintf(&sb, "[%s] ", l.prefix)
	}
	if caller != "" {
		fmt.Fprintf(&sb, "[%s] ", caller)
	}
	sb.WriteString(msg)

	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, l.fields[k])
	}
	sb.WriteString("\n")
	return sb.String()
}

func (l *Logger) jsonLine(level Level, caller, msg string) string {
	entry := make(map[string]any, len(l.fields)+5)
	for k, v := range l.fields {
		entry[k] = v
	}
	entry["time"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	if l.prefix != "" {
		entry["component"] = l.prefix
	}
	if caller != "" {
		entry["caller"] = caller
	}
	data, err := json.Marshal(entry)
	if err != nil {
		data, _ = json.Marshal(map[string]any{"level": level.String(), "msg": msg, "log_error": err.Error()})
	}
	return string(data) + "\n"
}

type ctxKey struct{}

// FromContext returns the logger from the context, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// NewContext returns a new context with the given logger.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
