package usecases

import (
	"context"
	"fmt"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/domain/ticket"
	"ticketbot/internal/shared/logger"
)

type ModifyParticipantCommand struct {
	GuildID   string
	ChannelID string
	ActorID   string
	TargetID  string
	// Grant adds the target to the ticket; false revokes.
	Grant bool
}

type ModifyParticipantExecutor interface {
	Execute(ctx context.Context, cmd ModifyParticipantCommand) error
}

// ModifyParticipantUseCase adds or removes a member on a ticket channel.
type ModifyParticipantUseCase struct {
	tickets  ticket.TicketRepository
	channels platform.ChannelGateway
	messages platform.MessagingGateway
	cfg      Config
	logger   logger.Interface
}

func NewModifyParticipantUseCase(
	tickets ticket.TicketRepository,
	channels platform.ChannelGateway,
	messages platform.MessagingGateway,
	cfg Config,
	logger logger.Interface,
) *ModifyParticipantUseCase {
	return &ModifyParticipantUseCase{
		tickets:  tickets,
		channels: channels,
		messages: messages,
		cfg:      cfg,
		logger:   logger,
	}
}

func (uc *ModifyParticipantUseCase) Execute(ctx context.Context, cmd ModifyParticipantCommand) error {
	if cmd.ChannelID == "" || cmd.TargetID == "" {
		return fmt.Errorf("channel ID and target ID are required")
	}

	owner, err := uc.tickets.GetOwner(ctx, cmd.ChannelID)
	if err != nil {
		return err
	}

	if cmd.Grant {
		if err := uc.channels.SetPermission(ctx, cmd.ChannelID, platform.Member(cmd.TargetID), true, true); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
	} else {
		// Revoking the owner would orphan the ticket from its requester;
		// closing is the operation for that.
		if cmd.TargetID == owner {
			return fmt.Errorf("cannot remove the ticket owner, close the ticket instead")
		}
		if err := uc.channels.ClearPermission(ctx, cmd.ChannelID, platform.Member(cmd.TargetID)); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
	}

	verb := "added to"
	if !cmd.Grant {
		verb = "removed from"
	}
	if _, err := uc.messages.Send(ctx, cmd.ChannelID,
		fmt.Sprintf("<@%s> was %s the ticket by <@%s>", cmd.TargetID, verb, cmd.ActorID), nil); err != nil {
		uc.logger.Warnw("failed to send participant notice", "channel_id", cmd.ChannelID, "error", err)
	}

	uc.logger.Infow("ticket participant changed",
		"channel_id", cmd.ChannelID, "target_id", cmd.TargetID, "grant", cmd.Grant)
	return nil
}
