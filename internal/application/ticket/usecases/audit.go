package usecases

import (
	"context"
	"fmt"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/shared/logger"
)

const (
	colorCreated = 0x5dc169
	colorClosed  = 0xff0000
	colorNotice  = 0x00ffff
	colorStats   = 0xa0e9ec
	colorDelete  = 0xf7fcfd
)

// auditLog posts an action notice to the guild's ticket-log channel. A
// missing log channel is logged and swallowed: audit is best effort and
// never fails the operation that triggered it.
func auditLog(
	ctx context.Context,
	channels platform.ChannelGateway,
	messages platform.MessagingGateway,
	log logger.Interface,
	cfg Config,
	guildID, actorID, channelID, action string,
) {
	logChannelID, err := channels.FindTextChannel(ctx, guildID, cfg.LogCategory, cfg.LogChannel)
	if err != nil || logChannelID == "" {
		log.Warnw("ticket log channel unavailable, skipping audit entry",
			"guild_id", guildID, "action", action, "error", err)
		return
	}

	embed := &platform.Embed{
		Description: fmt.Sprintf("%s by <@%s>", action, actorID),
		Color:       colorNotice,
		Fields: []platform.EmbedField{
			{Name: "channel", Value: fmt.Sprintf("<#%s>", channelID)},
		},
	}
	if _, err := messages.Send(ctx, logChannelID, "", embed); err != nil {
		log.Warnw("failed to write audit entry", "action", action, "error", err)
	}
}
