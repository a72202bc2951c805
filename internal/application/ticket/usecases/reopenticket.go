package usecases

import (
	"context"
	"fmt"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/logger"
	"ticketbot/internal/shared/syncutil"
)

type ReopenTicketCommand struct {
	GuildID   string
	ChannelID string
	ActorID   string
}

type ReopenTicketResult struct {
	ChannelName string
	AlreadyOpen bool
}

type ReopenTicketExecutor interface {
	Execute(ctx context.Context, cmd ReopenTicketCommand) (*ReopenTicketResult, error)
}

type ReopenTicketUseCase struct {
	tickets  ticket.TicketRepository
	channels platform.ChannelGateway
	messages platform.MessagingGateway
	locks    *syncutil.KeyedMutex
	cfg      Config
	logger   logger.Interface
}

func NewReopenTicketUseCase(
	tickets ticket.TicketRepository,
	channels platform.ChannelGateway,
	messages platform.MessagingGateway,
	locks *syncutil.KeyedMutex,
	cfg Config,
	logger logger.Interface,
) *ReopenTicketUseCase {
	return &ReopenTicketUseCase{
		tickets:  tickets,
		channels: channels,
		messages: messages,
		locks:    locks,
		cfg:      cfg,
		logger:   logger,
	}
}

func (uc *ReopenTicketUseCase) Execute(ctx context.Context, cmd ReopenTicketCommand) (*ReopenTicketResult, error) {
	if cmd.ChannelID == "" {
		return nil, fmt.Errorf("channel ID is required")
	}

	var result *ReopenTicketResult
	var err error
	uc.locks.WithLock(cmd.ChannelID, func() {
		result, err = uc.execute(ctx, cmd)
	})
	return result, err
}

func (uc *ReopenTicketUseCase) execute(ctx context.Context, cmd ReopenTicketCommand) (*ReopenTicketResult, error) {
	t, err := uc.tickets.GetByChannelID(ctx, cmd.ChannelID)
	if err != nil {
		return nil, err
	}

	if t.Status() == vo.StatusOpen {
		if _, sendErr := uc.messages.Send(ctx, cmd.ChannelID, "This ticket is already open", nil); sendErr != nil {
			uc.logger.Warnw("failed to send already-open notice", "channel_id", cmd.ChannelID, "error", sendErr)
		}
		return &ReopenTicketResult{ChannelName: t.ChannelName(), AlreadyOpen: true}, nil
	}

	openCategoryID, err := uc.channels.EnsureCategory(ctx, cmd.GuildID, t.Type().CategoryName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ticket category: %w", err)
	}
	if err := uc.channels.MoveChannel(ctx, cmd.ChannelID, openCategoryID); err != nil {
		uc.logger.Warnw("failed to move channel back", "channel_id", cmd.ChannelID, "error", err)
	}

	if err := uc.channels.SetPermission(ctx, cmd.ChannelID, platform.Member(t.UserID()), true, true); err != nil {
		uc.logger.Warnw("failed to restore owner access", "channel_id", cmd.ChannelID, "error", err)
	}

	if err := t.Reopen(); err != nil {
		return nil, err
	}
	if err := uc.channels.RenameChannel(ctx, cmd.ChannelID, t.ChannelName()); err != nil {
		uc.logger.Warnw("failed to rename reopened channel", "channel_id", cmd.ChannelID, "error", err)
	}
	if err := uc.tickets.Rename(ctx, cmd.ChannelID, t.ChannelName()); err != nil {
		return nil, fmt.Errorf("failed to record reopened name: %w", err)
	}
	if err := uc.tickets.UpdateStatus(ctx, cmd.ChannelID, vo.StatusOpen); err != nil {
		return nil, fmt.Errorf("failed to record reopened status: %w", err)
	}

	// Reopening resets the inactivity countdown.
	if err := uc.tickets.UpdateCheckState(ctx, cmd.ChannelID, vo.CheckUntouched); err != nil {
		uc.logger.Warnw("failed to reset check state", "channel_id", cmd.ChannelID, "error", err)
	}

	if _, err := uc.messages.Send(ctx, cmd.ChannelID, "",
		&platform.Embed{Description: fmt.Sprintf("Ticket reopened by <@%s>", cmd.ActorID), Color: colorCreated},
		platform.ControlClose,
	); err != nil {
		uc.logger.Warnw("failed to send reopen notice", "channel_id", cmd.ChannelID, "error", err)
	}

	auditLog(ctx, uc.channels, uc.messages, uc.logger, uc.cfg,
		cmd.GuildID, cmd.ActorID, cmd.ChannelID, "Reopened ticket")
	uc.logger.Infow("ticket reopened", "channel", t.ChannelName(), "actor_id", cmd.ActorID)

	return &ReopenTicketResult{ChannelName: t.ChannelName()}, nil
}
