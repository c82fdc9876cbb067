// Package audit records moderation events to the log, the optional store and
// an optional notifier such as the security-log channel.
package audit

import (
	"context"
	"sync"
	"time"

	"sentinel-denylist/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
	LevelCrit = "CRIT"
)

const (
	EventDenylistMatch   = "denylist_match"
	EventDenylistRefresh = "denylist_refresh"
	EventActionFailed    = "moderation_failed"
)

var eventCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "audit_events_recorded",
	Help: "Number of audit events recorded, by event and level",
}, []string{"event", "level"})

type Notifier func(context.Context, storage.AuditLog)

type Logger struct {
	store  *storage.Store
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	notify    Notifier
	notifyMin string
}

func NewLogger(store *storage.Store, logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{store: store, logger: logger, now: time.Now}
}

// SetNotifier registers fn for entries at minLevel or above.
func (l *Logger) SetNotifier(minLevel string, fn Notifier) {
	l.mu.Lock()
	l.notify = fn
	l.notifyMin = minLevel
	l.mu.Unlock()
}

func (l *Logger) Log(ctx context.Context, level, guildID, userID, event, details string) {
	entry := storage.AuditLog{
		GuildID:   guildID,
		UserID:    userID,
		Level:     level,
		Event:     event,
		Details:   details,
		CreatedAt: l.now(),
	}
	eventCount.WithLabelValues(event, level).Inc()

	fields := []zap.Field{
		zap.String("level", level),
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("event", event),
		zap.String("details", details),
	}
	switch level {
	case LevelCrit:
		l.logger.Error("audit", fields...)
	case LevelWarn:
		l.logger.Warn("audit", fields...)
	default:
		l.logger.Info("audit", fields...)
	}

	if l.store != nil {
		if err := l.store.AddAuditLog(ctx, entry); err != nil {
			l.logger.Warn("audit persist failed", zap.String("event", event), zap.Error(err))
		}
	}

	l.mu.RLock()
	notify, minLevel := l.notify, l.notifyMin
	l.mu.RUnlock()
	if notify != nil && rank(level) >= rank(minLevel) {
		notify(ctx, entry)
	}
}

func rank(level string) int {
	switch level {
	case LevelCrit:
		return 2
	case LevelWarn:
		return 1
	default:
		return 0
	}
}
