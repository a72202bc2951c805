package usecases

import (
	"context"
	"fmt"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/logger"
)

type ToggleAutoCloseCommand struct {
	ChannelID string
	ActorID   string
	// Enabled arms the ticket for the inactivity scanner; false exempts it.
	Enabled bool
}

type ToggleAutoCloseExecutor interface {
	Execute(ctx context.Context, cmd ToggleAutoCloseCommand) error
}

// ToggleAutoCloseUseCase flips a ticket between scanner-armed and exempt.
type ToggleAutoCloseUseCase struct {
	tickets  ticket.TicketRepository
	messages platform.MessagingGateway
	logger   logger.Interface
}

func NewToggleAutoCloseUseCase(
	tickets ticket.TicketRepository,
	messages platform.MessagingGateway,
	logger logger.Interface,
) *ToggleAutoCloseUseCase {
	return &ToggleAutoCloseUseCase{tickets: tickets, messages: messages, logger: logger}
}

func (uc *ToggleAutoCloseUseCase) Execute(ctx context.Context, cmd ToggleAutoCloseCommand) error {
	if cmd.ChannelID == "" {
		return fmt.Errorf("channel ID is required")
	}

	// Resolve first so unknown channels fail before any mutation.
	if _, err := uc.tickets.GetStatus(ctx, cmd.ChannelID); err != nil {
		return err
	}

	state := vo.CheckExempt
	notice := "Auto-close disabled for this ticket"
	if cmd.Enabled {
		state = vo.CheckUntouched
		notice = "Auto-close enabled for this ticket"
	}
	if err := uc.tickets.UpdateCheckState(ctx, cmd.ChannelID, state); err != nil {
		return fmt.Errorf("failed to update check state: %w", err)
	}

	if _, err := uc.messages.Send(ctx, cmd.ChannelID, notice, nil); err != nil {
		uc.logger.Warnw("failed to send auto-close notice", "channel_id", cmd.ChannelID, "error", err)
	}

	uc.logger.Infow("auto-close toggled",
		"channel_id", cmd.ChannelID, "enabled", cmd.Enabled, "actor_id", cmd.ActorID)
	return nil
}
