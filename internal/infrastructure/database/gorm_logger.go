package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger routes gorm's logging through slog
type GormLogger struct {
	logger             *slog.Logger
	level              logger.LogLevel
	slowQueryThreshold time.Duration
}

// NewGormLogger creates a gorm logger that warns on queries slower than slowQueryThreshold
func NewGormLogger(l *slog.Logger, slowQueryThreshold time.Duration) *GormLogger {
	return &GormLogger{
		logger:             l,
		level:              logger.Info,
		slowQueryThreshold: slowQueryThreshold,
	}
}

// LogMode returns a copy of the logger at the given level
func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs one executed statement. Missing records are expected and logged at debug.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("duration", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		l.logger.ErrorContext(ctx, "SQL execution failed", append(attrs, slog.String("error", err.Error()))...)
	case l.slowQueryThreshold > 0 && elapsed > l.slowQueryThreshold && l.level >= logger.Warn:
		l.logger.WarnContext(ctx, "Slow query detected", attrs...)
	case l.level >= logger.Info:
		l.logger.DebugContext(ctx, "SQL executed", attrs...)
	}
}
