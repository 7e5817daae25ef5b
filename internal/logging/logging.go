package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// ServiceName は全ログに付与される service 属性
const ServiceName = "bioweb"

// 値を出力しない属性キー（小文字で比較）
var secretKeys = map[string]bool{
	"password":      true,
	"newpassword":   true,
	"new_password":  true,
	"token":         true,
	"authorization": true,
	"x-admin-token": true,
	"secret":        true,
}

const redacted = "[REDACTED]"

// Setup installs the JSON logger on stdout as the slog default.
// level is DEBUG, INFO, WARN or ERROR (case-insensitive); anything else is INFO.
func Setup(level string) {
	slog.SetDefault(New(os.Stdout, level))
}

// New builds the logger Setup installs, writing to w. ERROR records carry a
// stacktrace attribute and credential-like attributes are masked.
func New(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(level),
		AddSource:   true,
		ReplaceAttr: redact,
	})
	return slog.New(errorStack{h}).With("service", ServiceName)
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

// Fatal logs at Error level and exits with code 1.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

type errorStack struct {
	next slog.Handler
}

func (h errorStack) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h errorStack) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		buf := make([]byte, 4096)
		buf = buf[:runtime.Stack(buf, false)]
		r.AddAttrs(slog.String("stacktrace", string(buf)))
	}
	return h.next.Handle(ctx, r)
}

func (h errorStack) WithAttrs(attrs []slog.Attr) slog.Handler {
	return errorStack{h.next.WithAttrs(attrs)}
}

func (h errorStack) WithGroup(name string) slog.Handler {
	return errorStack{h.next.WithGroup(name)}
}
