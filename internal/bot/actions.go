package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"sentinel-denylist/internal/modules/denyfilter"

	"github.com/bwmarrin/discordgo"
)

// discordActions performs moderation calls on a live session.
type discordActions struct {
	session *discordgo.Session
	selfID  func() string
}

// CanManageMessages resolves the bot's channel permissions. It is only called
// for matched messages, so clean traffic never reaches the REST fallback.
func (a *discordActions) CanManageMessages(ctx context.Context, msg denyfilter.MessageContext) bool {
	if ctx.Err() != nil || a.selfID == nil {
		return false
	}
	return canManageMessages(ctx, a.session, a.selfID(), msg.ChannelID)
}

func (a *discordActions) DeleteMessage(ctx context.Context, msg denyfilter.MessageContext) error {
	if err := a.session.ChannelMessageDelete(msg.ChannelID, msg.MessageID, discordgo.WithContext(ctx)); err != nil {
		return classifyDiscordError("delete message", err)
	}
	return nil
}

func (a *discordActions) SendMessage(ctx context.Context, channelID, content string) error {
	if _, err := a.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return classifyDiscordError("send message", err)
	}
	return nil
}

// classifyDiscordError wraps permission rejections with denyfilter.ErrForbidden.
func classifyDiscordError(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%s: %w: %v", op, denyfilter.ErrForbidden, err)
		}
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
				return fmt.Errorf("%s: %w: %v", op, denyfilter.ErrForbidden, err)
			}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// canManageMessages reports whether the bot may delete other members'
// messages in channelID. Any lookup failure counts as no permission.
func canManageMessages(ctx context.Context, session *discordgo.Session, selfID, channelID string) bool {
	if session == nil || selfID == "" {
		return false
	}
	var perms int64
	var err error
	if session.State != nil {
		perms, err = session.State.UserChannelPermissions(selfID, channelID)
	}
	if session.State == nil || err != nil {
		perms, err = session.UserChannelPermissions(selfID, channelID, discordgo.WithContext(ctx))
		if err != nil {
			return false
		}
	}
	return perms&discordgo.PermissionManageMessages != 0
}
