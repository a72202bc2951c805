package usecases

import (
	"context"
	"fmt"
	"time"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/domain/ticket"
	"ticketbot/internal/shared/logger"
	"ticketbot/internal/shared/syncutil"
)

type DeleteTicketCommand struct {
	GuildID   string
	ChannelID string
	ActorID   string
}

type DeleteTicketResult struct {
	ChannelName string
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error)
}

type DeleteTicketUseCase struct {
	tickets  ticket.TicketRepository
	channels platform.ChannelGateway
	messages platform.MessagingGateway
	locks    *syncutil.KeyedMutex
	cfg      Config
	logger   logger.Interface

	// sleep is swapped in tests to skip the countdown.
	sleep func(time.Duration)
}

func NewDeleteTicketUseCase(
	tickets ticket.TicketRepository,
	channels platform.ChannelGateway,
	messages platform.MessagingGateway,
	locks *syncutil.KeyedMutex,
	cfg Config,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		tickets:  tickets,
		channels: channels,
		messages: messages,
		locks:    locks,
		cfg:      cfg,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error) {
	if cmd.ChannelID == "" {
		return nil, fmt.Errorf("channel ID is required")
	}

	var result *DeleteTicketResult
	var err error
	uc.locks.WithLock(cmd.ChannelID, func() {
		result, err = uc.execute(ctx, cmd)
	})
	return result, err
}

func (uc *DeleteTicketUseCase) execute(ctx context.Context, cmd DeleteTicketCommand) (*DeleteTicketResult, error) {
	// Guard first: a delete issued on a non-ticket channel must never reach
	// the platform.
	t, err := uc.tickets.GetByChannelID(ctx, cmd.ChannelID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.messages.Send(ctx, cmd.ChannelID, "",
		&platform.Embed{
			Description: fmt.Sprintf("This ticket will be deleted in %d seconds", int(uc.cfg.DeleteGrace.Seconds())),
			Color:       colorDelete,
		}); err != nil {
		uc.logger.Warnw("failed to send delete countdown", "channel_id", cmd.ChannelID, "error", err)
	}
	uc.sleep(uc.cfg.DeleteGrace)

	// Channel first, then the row: a delete that fails platform-side leaves
	// the row live so the ticket stays managed.
	if err := uc.channels.DeleteChannel(ctx, cmd.ChannelID); err != nil {
		return nil, fmt.Errorf("failed to delete ticket channel: %w", err)
	}
	if err := uc.tickets.ArchiveAndDelete(ctx, cmd.ChannelID); err != nil {
		return nil, fmt.Errorf("failed to archive ticket: %w", err)
	}

	uc.auditDelete(ctx, cmd, t)
	uc.logger.Infow("ticket deleted", "channel", t.ChannelName(), "actor_id", cmd.ActorID)

	return &DeleteTicketResult{ChannelName: t.ChannelName()}, nil
}

func (uc *DeleteTicketUseCase) auditDelete(ctx context.Context, cmd DeleteTicketCommand, t *ticket.Ticket) {
	logChannelID, err := uc.channels.FindTextChannel(ctx, cmd.GuildID, uc.cfg.LogCategory, uc.cfg.LogChannel)
	if err != nil || logChannelID == "" {
		uc.logger.Warnw("ticket log channel unavailable, skipping audit entry",
			"guild_id", cmd.GuildID, "error", err)
		return
	}
	embed := &platform.Embed{
		Description: fmt.Sprintf("Deleted ticket %s by <@%s>", t.ChannelName(), cmd.ActorID),
		Color:       colorDelete,
	}
	if _, err := uc.messages.Send(ctx, logChannelID, "", embed); err != nil {
		uc.logger.Warnw("failed to write audit entry", "error", err)
	}
}
