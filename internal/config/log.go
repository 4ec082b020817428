package config

import (
	"go.uber.org/zap"
)

type logEntry struct {
	level  string
	msg    string
	err    error
	fields map[string]string
}

// LogBuffer holds configuration messages until the process logger is built.
type LogBuffer struct {
	entries []logEntry
}

func NewConfigLogger() *LogBuffer {
	return &LogBuffer{}
}

func (b *LogBuffer) Info(msg string, fields map[string]string) {
	b.entries = append(b.entries, logEntry{level: "info", msg: msg, fields: fields})
}

func (b *LogBuffer) Warn(msg string, err error, fields map[string]string) {
	b.entries = append(b.entries, logEntry{level: "warn", msg: msg, err: err, fields: fields})
}

func (b *LogBuffer) FlushToZap(logger *zap.Logger) {
	for _, e := range b.entries {
		zapFields := make([]zap.Field, 0, len(e.fields)+1)
		for k, v := range e.fields {
			zapFields = append(zapFields, zap.String(k, v))
		}
		if e.err != nil {
			zapFields = append(zapFields, zap.Error(e.err))
		}

		switch e.level {
		case "warn":
			logger.Warn(e.msg, zapFields...)
		default:
			logger.Info(e.msg, zapFields...)
		}
	}
	b.entries = nil
}
