// Package denyfilter scans chat messages for denylisted substrings and
// moderates the first match.
package denyfilter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"sentinel-denylist/internal/modules/audit"

	"go.uber.org/zap"
)

// ErrForbidden is wrapped by Actions implementations when the platform
// rejects a call for lack of permission.
var ErrForbidden = errors.New("forbidden")

// MessageContext is the platform-neutral view of one inbound message.
type MessageContext struct {
	MessageID     string
	ChannelID     string
	GuildID       string
	AuthorID      string
	AuthorMention string
	Content       string
}

// Actions performs platform calls for the filter. CanManageMessages is only
// consulted once a message has matched.
type Actions interface {
	CanManageMessages(ctx context.Context, msg MessageContext) bool
	DeleteMessage(ctx context.Context, msg MessageContext) error
	SendMessage(ctx context.Context, channelID, content string) error
}

type Denylist interface {
	EnsureFresh(ctx context.Context)
	Match(token string) (string, bool)
}

type Outcome string

const (
	OutcomeSkipped      Outcome = "skipped"
	OutcomeClean        Outcome = "clean"
	OutcomeModerated    Outcome = "moderated"
	OutcomeWarned       Outcome = "warned"
	OutcomeAudited      Outcome = "audited"
	OutcomeActionFailed Outcome = "action_failed"
)

type FailureKind string

const (
	FailureAuthorization FailureKind = "authorization"
	FailureUnexpected    FailureKind = "unexpected"
)

// ActionError describes a moderation call that did not go through.
type ActionError struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failure on %s: %v", e.Kind, e.Op, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

type Result struct {
	Outcome Outcome
	Token   string
	Entry   string
	Deleted bool
	Err     error
}

// Notices are the public warnings; {mention} is replaced with the author mention.
type Notices struct {
	Removed string
	Flagged string
}

func DefaultNotices() Notices {
	return Notices{
		Removed: "{mention} ❌ Disallowed word detected!",
		Flagged: "{mention} ⚠️ Potential disallowed word detected. Admins have been notified.",
	}
}

type Module struct {
	denylist Denylist
	actions  Actions
	audit    *audit.Logger
	logger   *zap.Logger
	notices  Notices
	selfID   atomic.Value
}

func New(denylist Denylist, actions Actions, auditLogger *audit.Logger, logger *zap.Logger, notices Notices) *Module {
	m := &Module{
		denylist: denylist,
		actions:  actions,
		audit:    auditLogger,
		logger:   logger,
		notices:  notices,
	}
	m.selfID.Store("")
	return m
}

// SetSelfID records the bot's own user ID; its messages are never scanned.
func (m *Module) SetSelfID(id string) {
	m.selfID.Store(id)
}

func (m *Module) HandleMessage(ctx context.Context, msg MessageContext, auditOnly bool) Result {
	if self, _ := m.selfID.Load().(string); self != "" && msg.AuthorID == self {
		messageCount.WithLabelValues(string(OutcomeSkipped)).Inc()
		return Result{Outcome: OutcomeSkipped}
	}

	m.denylist.EnsureFresh(ctx)

	token, entry, found := m.scan(msg.Content)
	if !found {
		messageCount.WithLabelValues(string(OutcomeClean)).Inc()
		return Result{Outcome: OutcomeClean}
	}

	result := Result{Token: token, Entry: entry}
	switch {
	case auditOnly:
		result.Outcome = OutcomeAudited
	case m.canManage(ctx, msg):
		m.moderate(ctx, msg, &result)
	default:
		m.warn(ctx, msg, &result)
	}

	messageCount.WithLabelValues(string(result.Outcome)).Inc()
	m.report(ctx, msg, result)
	return result
}

// Scan returns the first token of content that contains a denylist entry,
// without taking any action.
func (m *Module) Scan(content string) (token, entry string, found bool) {
	return m.scan(content)
}

func (m *Module) scan(content string) (string, string, bool) {
	for _, token := range strings.Fields(content) {
		if entry, ok := m.denylist.Match(token); ok {
			return token, entry, true
		}
	}
	return "", "", false
}

func (m *Module) moderate(ctx context.Context, msg MessageContext, result *Result) {
	if err := m.call("delete", func() error { return m.actions.DeleteMessage(ctx, msg) }); err != nil {
		result.Outcome = OutcomeActionFailed
		result.Err = err
		return
	}
	result.Deleted = true

	notice := m.notice(m.notices.Removed, msg)
	if err := m.call("send", func() error { return m.actions.SendMessage(ctx, msg.ChannelID, notice) }); err != nil {
		result.Outcome = OutcomeActionFailed
		result.Err = err
		return
	}
	result.Outcome = OutcomeModerated
}

func (m *Module) warn(ctx context.Context, msg MessageContext, result *Result) {
	notice := m.notice(m.notices.Flagged, msg)
	if err := m.call("send", func() error { return m.actions.SendMessage(ctx, msg.ChannelID, notice) }); err != nil {
		result.Outcome = OutcomeActionFailed
		result.Err = err
		return
	}
	result.Outcome = OutcomeWarned
}

// canManage treats a panicking permission lookup as no permission.
func (m *Module) canManage(ctx context.Context, msg MessageContext) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("permission lookup panicked", zap.String("channel_id", msg.ChannelID), zap.Any("panic", r))
			ok = false
		}
	}()
	return m.actions.CanManageMessages(ctx, msg)
}

// call runs one platform action and converts failures, including panics,
// into an *ActionError.
func (m *Module) call(op string, fn func() error) (actionErr error) {
	defer func() {
		if r := recover(); r != nil {
			actionErr = &ActionError{Kind: FailureUnexpected, Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(); err != nil {
		kind := FailureUnexpected
		if errors.Is(err, ErrForbidden) {
			kind = FailureAuthorization
		}
		return &ActionError{Kind: kind, Op: op, Err: err}
	}
	return nil
}

func (m *Module) notice(template string, msg MessageContext) string {
	mention := msg.AuthorMention
	if mention == "" && msg.AuthorID != "" {
		mention = "<@" + msg.AuthorID + ">"
	}
	return strings.ReplaceAll(template, "{mention}", mention)
}

func (m *Module) report(ctx context.Context, msg MessageContext, result Result) {
	fields := []zap.Field{
		zap.String("guild_id", msg.GuildID),
		zap.String("channel_id", msg.ChannelID),
		zap.String("message_id", msg.MessageID),
		zap.String("user_id", msg.AuthorID),
		zap.String("entry", result.Entry),
		zap.String("outcome", string(result.Outcome)),
	}
	detail := fmt.Sprintf("outcome=%s entry=%s channel=%s message=%s deleted=%t", result.Outcome, result.Entry, msg.ChannelID, msg.MessageID, result.Deleted)

	var actionErr *ActionError
	if errors.As(result.Err, &actionErr) {
		failureCount.WithLabelValues(string(actionErr.Kind)).Inc()
		fields = append(fields, zap.String("failure", string(actionErr.Kind)), zap.String("op", actionErr.Op), zap.Error(actionErr.Err))
		detail += fmt.Sprintf(" failure=%s op=%s", actionErr.Kind, actionErr.Op)
		if actionErr.Kind == FailureAuthorization {
			m.logger.Warn("cannot moderate denylisted message, check permissions", fields...)
		} else {
			m.logger.Error("unexpected error moderating denylisted message", fields...)
		}
		m.audit.Log(ctx, audit.LevelCrit, msg.GuildID, msg.AuthorID, audit.EventActionFailed, detail)
		return
	}

	m.logger.Info("denylist match", fields...)
	level := audit.LevelWarn
	if result.Outcome == OutcomeAudited {
		level = audit.LevelInfo
	}
	m.audit.Log(ctx, level, msg.GuildID, msg.AuthorID, audit.EventDenylistMatch, detail)
}
