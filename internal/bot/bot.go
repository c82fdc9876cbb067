package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"sentinel-denylist/internal/analytics"
	"sentinel-denylist/internal/config"
	"sentinel-denylist/internal/denylist"
	"sentinel-denylist/internal/modules/audit"
	"sentinel-denylist/internal/modules/denyfilter"
	"sentinel-denylist/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	cfg        config.Config
	logger     *zap.Logger
	store      *storage.Store
	audit      *audit.Logger
	analytics  *analytics.Service
	denylist   *denylist.Cache
	filter     *denyfilter.Module
	session    *discordgo.Session
	selfID     string
	selfMu     sync.RWMutex
	auditAgg   map[string]*auditAggregate
	auditAggMu sync.Mutex
	stop       chan struct{}
	stopOnce   sync.Once
	retention  sync.WaitGroup
}

type auditAggregate struct {
	channelID string
	messageID string
	count     int
	lastAt    time.Time
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, auditLogger *audit.Logger, analyticsService *analytics.Service, cache *denylist.Cache) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		audit:     auditLogger,
		analytics: analyticsService,
		denylist:  cache,
		session:   session,
		auditAgg:  make(map[string]*auditAggregate),
		stop:      make(chan struct{}),
	}

	notices := denyfilter.Notices{
		Removed: b.t(cfg.DefaultLanguage, "notice_removed"),
		Flagged: b.t(cfg.DefaultLanguage, "notice_flagged"),
	}
	b.filter = denyfilter.New(cache, &discordActions{session: session, selfID: b.getSelfID}, auditLogger, logger, notices)

	if b.audit != nil {
		b.audit.SetNotifier(audit.LevelWarn, func(ctx context.Context, entry storage.AuditLog) {
			if !b.cfg.Notifications.AuditToChannel {
				return
			}
			b.notifyAudit(ctx, entry)
		})
	}

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	b.startRetention()

	return nil
}

// Close stops background work and disconnects. It waits for an in-flight
// retention sweep until ctx is done.
func (b *Bot) Close(ctx context.Context) {
	b.stopOnce.Do(func() { close(b.stop) })

	done := make(chan struct{})
	go func() {
		b.retention.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("shutdown timed out waiting for retention sweep", zap.Error(ctx.Err()))
	}

	if b.session != nil {
		if err := b.session.Close(); err != nil {
			b.logger.Warn("discord session close failed", zap.Error(err))
		}
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	if event.User != nil {
		b.setSelfID(event.User.ID)
		b.logger.Info("discord ready", zap.String("user", event.User.Username), zap.Int("guilds", len(event.Guilds)))
	}
	b.denylist.EnsureFresh(context.Background())
}

func (b *Bot) onMessageCreate(session *discordgo.Session, msg *discordgo.MessageCreate) {
	if msg.Author == nil || msg.GuildID == "" {
		return
	}

	mc := denyfilter.MessageContext{
		MessageID:     msg.ID,
		ChannelID:     msg.ChannelID,
		GuildID:       msg.GuildID,
		AuthorID:      msg.Author.ID,
		AuthorMention: msg.Author.Mention(),
		Content:       msg.Content,
	}
	b.filter.HandleMessage(context.Background(), mc, b.isAuditMode())
}

func (b *Bot) setSelfID(id string) {
	b.selfMu.Lock()
	b.selfID = id
	b.selfMu.Unlock()
	b.filter.SetSelfID(id)
}

func (b *Bot) getSelfID() string {
	b.selfMu.RLock()
	defer b.selfMu.RUnlock()
	return b.selfID
}

func (b *Bot) isAuditMode() bool {
	return b.cfg.Mode == "audit"
}

func (b *Bot) startRetention() {
	if b.store == nil || b.cfg.RetentionDays <= 0 {
		return
	}
	b.retention.Add(1)
	go func() {
		defer b.retention.Done()
		b.cleanupAuditLogs()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-b.stop:
				return
			case <-ticker.C:
				b.cleanupAuditLogs()
			}
		}
	}()
}

func (b *Bot) cleanupAuditLogs() {
	removed, err := b.store.CleanupAuditLogs(context.Background(), b.cfg.RetentionDays)
	if err != nil {
		b.logger.Warn("audit retention cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		b.logger.Info("audit retention cleanup", zap.Int64("removed", removed), zap.Int("retention_days", b.cfg.RetentionDays))
	}
}

func (b *Bot) buildAuditEmbed(lang string, entry storage.AuditLog, count int) *discordgo.MessageEmbed {
	userValue := "<@" + entry.UserID + ">"
	if entry.UserID == "" {
		userValue = b.t(lang, "value_system")
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: b.t(lang, "field_event"), Value: b.auditEventLabel(lang, entry.Event), Inline: false},
		{Name: b.t(lang, "audit_level"), Value: entry.Level, Inline: true},
		{Name: b.t(lang, "field_user"), Value: userValue, Inline: true},
	}
	if count > 1 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: b.t(lang, "field_count"), Value: fmt.Sprintf("%d", count), Inline: true})
	}
	if details := formatAuditDetails(entry.Details); details != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: b.t(lang, "audit_details"), Value: details, Inline: false})
	}

	color := b.cfg.Notifications.EmbedColors.Warning
	if entry.Level == audit.LevelCrit {
		color = b.cfg.Notifications.EmbedColors.Error
	}
	return &discordgo.MessageEmbed{
		Title:       b.t(lang, "audit_title"),
		Description: b.t(lang, "audit_desc"),
		Color:       color,
		Author:      b.embedAuthor(lang),
		Footer:      b.embedFooter(lang),
		Timestamp:   entry.CreatedAt.Format(time.RFC3339),
		Fields:      fields,
	}
}

func (b *Bot) auditEventLabel(lang, event string) string {
	switch event {
	case audit.EventDenylistMatch:
		return b.t(lang, "event_denylist_match")
	case audit.EventDenylistRefresh:
		return b.t(lang, "event_denylist_refresh")
	case audit.EventActionFailed:
		return b.t(lang, "event_moderation_failed")
	default:
		return event
	}
}

// formatAuditDetails renders "k=v" details one per line, sorted by key.
func formatAuditDetails(details string) string {
	parts := strings.Fields(details)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return details
		}
		lines = append(lines, kv[0]+": "+kv[1])
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func (b *Bot) notifyAudit(ctx context.Context, entry storage.AuditLog) {
	channelID := b.cfg.DefaultSecurityLogChannel
	if channelID == "" || b.session == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		b.logger.Debug("security log notification skipped", zap.String("event", entry.Event), zap.Error(err))
		return
	}
	lang := b.cfg.DefaultLanguage

	key := entry.GuildID + "|" + entry.Level + "|" + entry.Event + "|" + entry.UserID
	window := 10 * time.Minute

	b.auditAggMu.Lock()
	agg := b.auditAgg[key]
	if agg != nil && agg.channelID == channelID && time.Since(agg.lastAt) <= window {
		agg.count++
		agg.lastAt = time.Now()
		count := agg.count
		messageID := agg.messageID
		b.auditAggMu.Unlock()
		embed := b.buildAuditEmbed(lang, entry, count)
		if _, err := b.session.ChannelMessageEditEmbed(channelID, messageID, embed); err == nil {
			return
		}
		b.auditAggMu.Lock()
		delete(b.auditAgg, key)
	}
	b.auditAggMu.Unlock()

	msg, err := b.session.ChannelMessageSendEmbed(channelID, b.buildAuditEmbed(lang, entry, 1))
	if err != nil || msg == nil {
		b.logger.Warn("security log notification failed", zap.String("channel_id", channelID), zap.Error(err))
		return
	}
	b.auditAggMu.Lock()
	b.auditAgg[key] = &auditAggregate{channelID: channelID, messageID: msg.ID, count: 1, lastAt: time.Now()}
	b.auditAggMu.Unlock()
}

func (b *Bot) embedAuthor(lang string) *discordgo.MessageEmbedAuthor {
	return &discordgo.MessageEmbedAuthor{Name: b.t(lang, "author_security")}
}

func (b *Bot) embedFooter(lang string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: b.t(lang, "footer_brand")}
}

func (b *Bot) modeLabel(lang string) string {
	if b.isAuditMode() {
		return b.t(lang, "mode_audit")
	}
	return b.t(lang, "mode_normal")
}

// deferReply acknowledges an interaction within the platform deadline; the
// real reply follows through editReply.
func (b *Bot) deferReply(session *discordgo.Session, interaction *discordgo.InteractionCreate, ephemeral bool) error {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
	if err != nil {
		b.logger.Warn("interaction acknowledge failed", zap.String("interaction_id", interaction.ID), zap.Error(err))
	}
	return err
}

func (b *Bot) editReply(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	edit := &discordgo.WebhookEdit{}
	if embed == nil {
		content := "No response available."
		edit.Content = &content
	} else {
		embeds := []*discordgo.MessageEmbed{embed}
		edit.Embeds = &embeds
	}
	if _, err := session.InteractionResponseEdit(interaction.Interaction, edit); err != nil {
		b.logger.Warn("interaction reply failed", zap.String("interaction_id", interaction.ID), zap.Error(err))
	}
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %d", key, counts[key]))
	}
	return strings.Join(lines, "\n")
}
