package bot

import (
	"context"
	"fmt"
	"time"

	"sentinel-denylist/internal/denylist"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// interactionTimeout bounds command work; deferred replies stay editable for
// fifteen minutes.
const interactionTimeout = 2 * time.Minute

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := interaction.ApplicationCommandData()
	if data.Name != "denylist" {
		return
	}
	// check and refresh may wait on the denylist source, which can outlast
	// the acknowledgement deadline.
	if err := b.deferReply(session, interaction, true); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()
	b.editReply(session, interaction, b.handleDenylistCommand(ctx, interaction.GuildID, data.Options))
}

// handleDenylistCommand builds the reply for one /denylist subcommand.
func (b *Bot) handleDenylistCommand(ctx context.Context, guildID string, options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.MessageEmbed {
	lang := b.cfg.DefaultLanguage
	if guildID == "" {
		return b.commandEmbed(b.t(lang, "error_title"), b.t(lang, "error_only_guild"), b.cfg.Notifications.EmbedColors.Error, nil)
	}
	if len(options) == 0 {
		return b.commandEmbed(b.t(lang, "error_title"), b.t(lang, "error_unknown"), b.cfg.Notifications.EmbedColors.Error, nil)
	}

	sub := options[0]
	switch sub.Name {
	case "status":
		return b.statusEmbed(lang, b.denylist.Stats())
	case "check":
		text := ""
		if len(sub.Options) > 0 {
			text = sub.Options[0].StringValue()
		}
		b.denylist.EnsureFresh(ctx)
		token, entry, found := b.filter.Scan(text)
		if !found {
			return b.commandEmbed(b.t(lang, "check_title"), b.t(lang, "check_clean"), b.cfg.Notifications.EmbedColors.Action, nil)
		}
		fields := []*discordgo.MessageEmbedField{
			{Name: b.t(lang, "field_token"), Value: "`" + token + "`", Inline: true},
			{Name: b.t(lang, "field_entry"), Value: "`" + entry + "`", Inline: true},
		}
		return b.commandEmbed(b.t(lang, "check_title"), b.t(lang, "check_match"), b.cfg.Notifications.EmbedColors.Warning, fields)
	case "refresh":
		if err := b.denylist.Refresh(ctx); err != nil {
			fields := []*discordgo.MessageEmbedField{{Name: b.t(lang, "field_last_error"), Value: err.Error(), Inline: false}}
			return b.commandEmbed(b.t(lang, "refresh_title"), b.t(lang, "refresh_failed"), b.cfg.Notifications.EmbedColors.Error, fields)
		}
		b.logger.Info("denylist refreshed on request", zap.String("guild_id", guildID))
		fields := []*discordgo.MessageEmbedField{{Name: b.t(lang, "field_entries"), Value: fmt.Sprintf("%d", b.denylist.Snapshot().Len()), Inline: true}}
		return b.commandEmbed(b.t(lang, "refresh_title"), b.t(lang, "refresh_ok"), b.cfg.Notifications.EmbedColors.Action, fields)
	case "report":
		if b.store == nil {
			return b.commandEmbed(b.t(lang, "report_title"), b.t(lang, "report_no_store"), b.cfg.Notifications.EmbedColors.Warning, nil)
		}
		period := "day"
		if len(sub.Options) > 0 {
			period = sub.Options[0].StringValue()
		}
		window := 24 * time.Hour
		if period == "week" {
			window = 7 * 24 * time.Hour
		}
		report, err := b.analytics.Report(ctx, guildID, time.Now().Add(-window))
		if err != nil {
			b.logger.Warn("denylist report failed", zap.String("guild_id", guildID), zap.Error(err))
			return b.commandEmbed(b.t(lang, "error_title"), err.Error(), b.cfg.Notifications.EmbedColors.Error, nil)
		}
		fields := []*discordgo.MessageEmbedField{
			{Name: b.t(lang, "field_total"), Value: fmt.Sprintf("%d", report.Total), Inline: true},
			{Name: b.t(lang, "field_levels"), Value: b.orNone(lang, formatCounts(report.ByLevel)), Inline: true},
			{Name: b.t(lang, "field_outcomes"), Value: b.orNone(lang, formatCounts(report.ByOutcome)), Inline: false},
		}
		return b.commandEmbed(b.t(lang, "report_title"), b.t(lang, "report_desc"), b.cfg.Notifications.EmbedColors.Action, fields)
	default:
		return b.commandEmbed(b.t(lang, "error_title"), b.t(lang, "error_unknown"), b.cfg.Notifications.EmbedColors.Error, nil)
	}
}

func (b *Bot) statusEmbed(lang string, stats denylist.Stats) *discordgo.MessageEmbed {
	lastError := b.t(lang, "value_none")
	if stats.LastError != nil {
		lastError = stats.LastError.Error()
	}
	fields := []*discordgo.MessageEmbedField{
		{Name: b.t(lang, "field_entries"), Value: fmt.Sprintf("%d", stats.Entries), Inline: true},
		{Name: b.t(lang, "field_mode"), Value: b.modeLabel(lang), Inline: true},
		{Name: b.t(lang, "field_last_success"), Value: b.formatTime(lang, stats.LastSuccess), Inline: true},
		{Name: b.t(lang, "field_last_attempt"), Value: b.formatTime(lang, stats.LastAttempt), Inline: true},
		{Name: b.t(lang, "field_refreshes"), Value: fmt.Sprintf("%d", stats.Refreshes), Inline: true},
		{Name: b.t(lang, "field_failures"), Value: fmt.Sprintf("%d", stats.Failures), Inline: true},
		{Name: b.t(lang, "field_last_error"), Value: lastError, Inline: false},
	}
	return b.commandEmbed(b.t(lang, "status_title"), b.t(lang, "status_desc"), b.cfg.Notifications.EmbedColors.Action, fields)
}

func (b *Bot) formatTime(lang string, value time.Time) string {
	if value.IsZero() {
		return b.t(lang, "value_never")
	}
	return fmt.Sprintf("<t:%d:R>", value.Unix())
}

func (b *Bot) orNone(lang, value string) string {
	if value == "" {
		return b.t(lang, "value_none")
	}
	return value
}

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}
