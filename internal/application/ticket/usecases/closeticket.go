package usecases

import (
	"context"
	"fmt"
	"time"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/errors"
	"ticketbot/internal/shared/logger"
	"ticketbot/internal/shared/syncutil"
)

const closedCategoryName = "Closed Tickets"

// historyDepth bounds the transcript statistics sweep.
const historyDepth = 2000

type CloseTicketCommand struct {
	GuildID   string
	ChannelID string
	ActorID   string
	// Inactive marks closes issued by the inactivity scanner; the close
	// notice says so instead of naming an actor.
	Inactive bool
}

type CloseTicketResult struct {
	ChannelName string
	// AlreadyClosed reports the idempotent no-op case.
	AlreadyClosed bool
}

type CloseTicketExecutor interface {
	Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error)
}

type CloseTicketUseCase struct {
	tickets     ticket.TicketRepository
	channels    platform.ChannelGateway
	messages    platform.MessagingGateway
	roster      platform.RosterGateway
	transcripts platform.TranscriptGateway
	locks       *syncutil.KeyedMutex
	cfg         Config
	logger      logger.Interface
}

func NewCloseTicketUseCase(
	tickets ticket.TicketRepository,
	channels platform.ChannelGateway,
	messages platform.MessagingGateway,
	roster platform.RosterGateway,
	transcripts platform.TranscriptGateway,
	locks *syncutil.KeyedMutex,
	cfg Config,
	logger logger.Interface,
) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		tickets:     tickets,
		channels:    channels,
		messages:    messages,
		roster:      roster,
		transcripts: transcripts,
		locks:       locks,
		cfg:         cfg,
		logger:      logger,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error) {
	if cmd.ChannelID == "" {
		return nil, fmt.Errorf("channel ID is required")
	}

	var result *CloseTicketResult
	var err error
	uc.locks.WithLock(cmd.ChannelID, func() {
		result, err = uc.execute(ctx, cmd)
	})
	return result, err
}

func (uc *CloseTicketUseCase) execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error) {
	t, err := uc.tickets.GetByChannelID(ctx, cmd.ChannelID)
	if err != nil {
		return nil, err
	}

	if t.Status() == vo.StatusClosed {
		if _, sendErr := uc.messages.Send(ctx, cmd.ChannelID, "This ticket is already closed", nil); sendErr != nil {
			uc.logger.Warnw("failed to send already-closed notice", "channel_id", cmd.ChannelID, "error", sendErr)
		}
		return &CloseTicketResult{ChannelName: t.ChannelName(), AlreadyClosed: true}, nil
	}

	stats := uc.collectStats(ctx, cmd.ChannelID, t)

	uc.announceClose(ctx, cmd)

	if err := uc.channels.ClearPermission(ctx, cmd.ChannelID, platform.Member(t.UserID())); err != nil {
		uc.logger.Warnw("failed to revoke owner access", "channel_id", cmd.ChannelID, "error", err)
	}

	closedCategoryID, err := uc.channels.EnsureCategory(ctx, cmd.GuildID, closedCategoryName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve closed category: %w", err)
	}
	if err := uc.channels.MoveChannel(ctx, cmd.ChannelID, closedCategoryID); err != nil {
		uc.logger.Warnw("failed to move channel to closed category", "channel_id", cmd.ChannelID, "error", err)
	}

	if err := t.Close(); err != nil {
		return nil, err
	}
	if err := uc.channels.RenameChannel(ctx, cmd.ChannelID, t.ChannelName()); err != nil {
		uc.logger.Warnw("failed to rename closed channel", "channel_id", cmd.ChannelID, "error", err)
	}
	if err := uc.tickets.Rename(ctx, cmd.ChannelID, t.ChannelName()); err != nil {
		return nil, fmt.Errorf("failed to record closed name: %w", err)
	}
	if err := uc.tickets.UpdateStatus(ctx, cmd.ChannelID, vo.StatusClosed); err != nil {
		return nil, fmt.Errorf("failed to record closed status: %w", err)
	}

	transcript := uc.exportTranscript(ctx, cmd, t)
	uc.deliverToOwner(ctx, t, stats, transcript)

	if _, err := uc.messages.Send(ctx, cmd.ChannelID, "",
		&platform.Embed{Description: "Reopen or delete this ticket", Color: colorNotice},
		platform.ControlReopen, platform.ControlDelete,
	); err != nil {
		uc.logger.Warnw("failed to post reopen/delete controls", "channel_id", cmd.ChannelID, "error", err)
	}

	auditLog(ctx, uc.channels, uc.messages, uc.logger, uc.cfg,
		cmd.GuildID, cmd.ActorID, cmd.ChannelID, "Closed ticket")
	uc.logger.Infow("ticket closed",
		"channel", t.ChannelName(), "actor_id", cmd.ActorID, "inactive", cmd.Inactive)

	return &CloseTicketResult{ChannelName: t.ChannelName()}, nil
}

func (uc *CloseTicketUseCase) announceClose(ctx context.Context, cmd CloseTicketCommand) {
	description := fmt.Sprintf("Ticket closed by <@%s>", cmd.ActorID)
	if cmd.Inactive {
		description = "Ticket closed due to inactivity"
	}
	if _, err := uc.messages.Send(ctx, cmd.ChannelID, "",
		&platform.Embed{Description: description, Color: colorClosed}); err != nil {
		uc.logger.Warnw("failed to send close notice", "channel_id", cmd.ChannelID, "error", err)
	}
}

// ticketStats summarizes the conversation for the owner's closing DM.
type ticketStats struct {
	MessageCount int
	Duration     time.Duration
	TopAuthor    string
	TopShare     float64
}

// collectStats sweeps up to historyDepth messages, skipping bot traffic.
// Statistics are best effort; a failed sweep yields zeroes.
func (uc *CloseTicketUseCase) collectStats(ctx context.Context, channelID string, t *ticket.Ticket) ticketStats {
	history, err := uc.channels.History(ctx, channelID, historyDepth)
	if err != nil {
		uc.logger.Warnw("failed to sweep ticket history", "channel_id", channelID, "error", err)
		return ticketStats{}
	}

	perAuthor := make(map[string]int)
	total := 0
	for _, m := range history {
		if m.AuthorIsBot {
			continue
		}
		perAuthor[m.AuthorName]++
		total++
	}

	stats := ticketStats{
		MessageCount: total,
		Duration:     time.Since(t.CreatedAt()),
	}
	for author, n := range perAuthor {
		if n > perAuthor[stats.TopAuthor] {
			stats.TopAuthor = author
		}
	}
	if total > 0 && stats.TopAuthor != "" {
		stats.TopShare = float64(perAuthor[stats.TopAuthor]) / float64(total) * 100
	}
	return stats
}

// exportTranscript renders the channel and posts it to the ticket-log
// channel. A missing log channel is a visible configuration problem but does
// not block the close.
func (uc *CloseTicketUseCase) exportTranscript(ctx context.Context, cmd CloseTicketCommand, t *ticket.Ticket) []byte {
	data, err := uc.transcripts.Export(ctx, cmd.ChannelID)
	if err != nil {
		uc.logger.Errorw("transcript export failed", "channel_id", cmd.ChannelID, "error", err)
		return nil
	}

	logChannelID, err := uc.channels.FindTextChannel(ctx, cmd.GuildID, uc.cfg.LogCategory, uc.cfg.LogChannel)
	if err != nil || logChannelID == "" {
		cfgErr := errors.NewConfigurationError(
			fmt.Sprintf("log channel %q in category %q not found", uc.cfg.LogChannel, uc.cfg.LogCategory))
		uc.logger.Errorw("transcript not archived", "guild_id", cmd.GuildID, "error", cfgErr)
		if _, sendErr := uc.messages.Send(ctx, cmd.ChannelID,
			"The ticket log channel is not set up; the transcript was not archived.", nil); sendErr != nil {
			uc.logger.Warnw("failed to send configuration notice", "channel_id", cmd.ChannelID, "error", sendErr)
		}
		return data
	}

	attachment := &platform.Attachment{Name: t.ChannelName() + ".html", Data: data}
	if _, err := uc.messages.SendFile(ctx, logChannelID, fmt.Sprintf("Transcript for %s", t.ChannelName()), attachment); err != nil {
		uc.logger.Errorw("failed to archive transcript", "channel_id", cmd.ChannelID, "error", err)
	}
	return data
}

// deliverToOwner DMs the closing summary and transcript. DM failure (closed
// DMs, left guild) is tolerated; the channel notice covers either outcome.
func (uc *CloseTicketUseCase) deliverToOwner(ctx context.Context, t *ticket.Ticket, stats ticketStats, transcript []byte) {
	embed := &platform.Embed{
		Title: fmt.Sprintf("Your ticket %s has been closed", t.ChannelName()),
		Color: colorStats,
		Fields: []platform.EmbedField{
			{Name: "Messages", Value: fmt.Sprintf("%d", stats.MessageCount)},
			{Name: "Open for", Value: stats.Duration.Round(time.Minute).String()},
		},
	}
	if stats.TopAuthor != "" {
		embed.Fields = append(embed.Fields, platform.EmbedField{
			Name:  "Most active",
			Value: fmt.Sprintf("%s (%.0f%%)", stats.TopAuthor, stats.TopShare),
		})
	}

	var attachment *platform.Attachment
	if transcript != nil {
		attachment = &platform.Attachment{Name: t.ChannelName() + ".html", Data: transcript}
	}

	notice := "Transcript sent to the ticket owner"
	if err := uc.messages.DirectMessage(ctx, t.UserID(), "", embed, attachment); err != nil {
		uc.logger.Infow("owner unreachable by DM", "user_id", t.UserID(), "error", err)
		notice = "Could not DM the transcript to the ticket owner"
	}
	if _, err := uc.messages.Send(ctx, t.ChannelID(), notice, nil); err != nil {
		uc.logger.Warnw("failed to send transcript notice", "channel_id", t.ChannelID(), "error", err)
	}
}
