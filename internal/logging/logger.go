package logging

import (
	"context"
	"fmt"
	"log"
	"strings"
)

type requestIDKey struct{}

// WithRequestID stores rid on ctx for later log lines.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from ctx.
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger writes "[level] request_id=... op=... k=v ..." lines. It is a value
// type; With returns a new Logger and never mutates the receiver.
type Logger struct {
	fields []string
	out    *log.Logger
}

func New(ctx context.Context) Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "-"
	}
	return Logger{fields: []string{"request_id=" + rid}}
}

// With appends key=value pairs. A trailing key without a value is dropped.
func (l Logger) With(kv ...any) Logger {
	fields := make([]string, len(l.fields), len(l.fields)+len(kv)/2)
	copy(fields, l.fields)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
	}
	l.fields = fields
	return l
}

func (l Logger) Error(op string, err error) { l.print("error", op, "error="+fmt.Sprint(err)) }

func (l Logger) Warn(op string, err error) { l.print("warn", op, "error="+fmt.Sprint(err)) }

func (l Logger) Infof(op, format string, args ...any) { l.print("info", op, fmt.Sprintf(format, args...)) }

func (l Logger) print(level, op, msg string) {
	line := fmt.Sprintf("[%s] %s op=%q %s", level, strings.Join(l.fields, " "), op, msg)
	if l.out != nil {
		l.out.Print(line)
		return
	}
	log.Print(line)
}
