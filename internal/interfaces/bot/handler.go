// Package bot is the discordgo interaction layer: it registers the slash
// command surface, dispatches component buttons through an explicit custom-id
// map, and translates interactions into use case commands.
package bot

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"ticketbot/internal/application/helper"
	"ticketbot/internal/application/platform"
	"ticketbot/internal/application/ticket/usecases"
	"ticketbot/internal/domain/challenge"
	"ticketbot/internal/shared/errors"
	"ticketbot/internal/shared/goroutine"
	"ticketbot/internal/shared/logger"
)

// commandTimeout bounds ordinary interactions. Ticket creation gets extra
// room on top of the configured selection wait.
const commandTimeout = 2 * time.Minute

type interactionFunc func(s *discordgo.Session, i *discordgo.InteractionCreate)

// Handler routes interactions to the ticket use cases and the helper service.
type Handler struct {
	create       usecases.CreateTicketExecutor
	closer       usecases.CloseTicketExecutor
	reopener     usecases.ReopenTicketExecutor
	deleter      usecases.DeleteTicketExecutor
	participants usecases.ModifyParticipantExecutor
	autoclose    usecases.ToggleAutoCloseExecutor
	helperSvc    *helper.Service
	helperRepo   challenge.HelperRepository
	roster       platform.RosterGateway
	cfg          usecases.Config
	logger       logger.Interface

	commands map[string]interactionFunc
	buttons  map[string]interactionFunc
}

func NewHandler(
	create usecases.CreateTicketExecutor,
	closer usecases.CloseTicketExecutor,
	reopener usecases.ReopenTicketExecutor,
	deleter usecases.DeleteTicketExecutor,
	participants usecases.ModifyParticipantExecutor,
	autoclose usecases.ToggleAutoCloseExecutor,
	helperSvc *helper.Service,
	helperRepo challenge.HelperRepository,
	roster platform.RosterGateway,
	cfg usecases.Config,
	logger logger.Interface,
) *Handler {
	h := &Handler{
		create:       create,
		closer:       closer,
		reopener:     reopener,
		deleter:      deleter,
		participants: participants,
		autoclose:    autoclose,
		helperSvc:    helperSvc,
		helperRepo:   helperRepo,
		roster:       roster,
		cfg:          cfg,
		logger:       logger,
	}
	h.commands = map[string]interactionFunc{
		"ticket":    h.handleTicket,
		"autoclose": h.handleAutoClose,
		"helper":    h.handleHelper,
		"refresh":   h.handleRefresh,
	}
	h.buttons = map[string]interactionFunc{
		string(platform.ControlClose):  h.buttonClose,
		string(platform.ControlReopen): h.buttonReopen,
		string(platform.ControlDelete): h.buttonDelete,
	}
	return h
}

// Register attaches the interaction dispatcher to the session.
func (h *Handler) Register(session *discordgo.Session) {
	session.AddHandler(h.onInteraction)
}

func (h *Handler) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		fn, ok := h.commands[name]
		if !ok {
			h.logger.Warnw("unknown command", "name", name)
			return
		}
		fn(s, i)
	case discordgo.InteractionMessageComponent:
		// Select menus carry prompt-scoped custom ids and are collected by
		// their own handlers; only the persistent buttons dispatch here.
		fn, ok := h.buttons[i.MessageComponentData().CustomID]
		if !ok {
			return
		}
		fn(s, i)
	}
}

func (h *Handler) handleTicket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	switch sub.Name {
	case "create":
		h.runTicketCreate(s, i, optionString(sub, "type"))
	case "close":
		h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
			res, err := h.closer.Execute(ctx, usecases.CloseTicketCommand{
				GuildID:   i.GuildID,
				ChannelID: i.ChannelID,
				ActorID:   interactionUserID(i),
			})
			if err != nil {
				return "", err
			}
			if res.AlreadyClosed {
				return "This ticket is already closed.", nil
			}
			return "Ticket closed.", nil
		})
	case "reopen":
		h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
			res, err := h.reopener.Execute(ctx, usecases.ReopenTicketCommand{
				GuildID:   i.GuildID,
				ChannelID: i.ChannelID,
				ActorID:   interactionUserID(i),
			})
			if err != nil {
				return "", err
			}
			if res.AlreadyOpen {
				return "This ticket is already open.", nil
			}
			return "Ticket reopened.", nil
		})
	case "delete":
		h.runTicketDelete(s, i)
	case "add":
		h.runParticipant(s, i, optionUserID(sub, "member"), true)
	case "remove":
		h.runParticipant(s, i, optionUserID(sub, "member"), false)
	}
}

func (h *Handler) runTicketCreate(s *discordgo.Session, i *discordgo.InteractionCreate, ticketType string) {
	username := interactionDisplayName(i)
	h.deferred(s, i, h.cfg.SelectionWait+commandTimeout, func(ctx context.Context) (string, error) {
		res, err := h.create.Execute(ctx, usecases.CreateTicketCommand{
			GuildID:    i.GuildID,
			UserID:     interactionUserID(i),
			Username:   username,
			TicketType: ticketType,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Your ticket is ready: <#%s>", res.ChannelID), nil
	})
}

// runTicketDelete responds before executing: the channel (and with it the
// interaction's followup target) is gone once the use case finishes.
func (h *Handler) runTicketDelete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}
	h.respond(s, i, "Deleting this ticket.")
	goroutine.SafeGo(h.logger, "ticket-delete", func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		_, err := h.deleter.Execute(ctx, usecases.DeleteTicketCommand{
			GuildID:   i.GuildID,
			ChannelID: i.ChannelID,
			ActorID:   interactionUserID(i),
		})
		if err != nil {
			h.logger.Errorw("ticket delete failed", "channel_id", i.ChannelID, "error", err)
		}
	})
}

func (h *Handler) runParticipant(s *discordgo.Session, i *discordgo.InteractionCreate, targetID string, grant bool) {
	if targetID == "" {
		h.respond(s, i, "No member given.")
		return
	}
	h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
		err := h.participants.Execute(ctx, usecases.ModifyParticipantCommand{
			GuildID:   i.GuildID,
			ChannelID: i.ChannelID,
			ActorID:   interactionUserID(i),
			TargetID:  targetID,
			Grant:     grant,
		})
		if err != nil {
			return "", err
		}
		if grant {
			return "Member added.", nil
		}
		return "Member removed.", nil
	})
}

func (h *Handler) handleAutoClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	if !h.requireAdmin(s, i) {
		return
	}
	enabled := data.Options[0].Name == "on"

	h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
		err := h.autoclose.Execute(ctx, usecases.ToggleAutoCloseCommand{
			ChannelID: i.ChannelID,
			ActorID:   interactionUserID(i),
			Enabled:   enabled,
		})
		if err != nil {
			return "", err
		}
		if enabled {
			return "Auto-close enabled for this ticket.", nil
		}
		return "Auto-close disabled for this ticket.", nil
	})
}

func (h *Handler) handleHelper(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	switch sub.Name {
	case "add":
		if !h.requireAdmin(s, i) {
			return
		}
		targetID := optionUserID(sub, "member")
		h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
			hp, err := challenge.NewHelper(targetID)
			if err != nil {
				return "", err
			}
			if err := h.helperRepo.Add(ctx, hp); err != nil {
				return "", err
			}
			if err := h.helperSvc.SyncHelperSolves(ctx); err != nil {
				return "", err
			}
			if err := h.modifyHelperEverywhere(ctx, i.GuildID, targetID, true); err != nil {
				return "", err
			}
			return fmt.Sprintf("<@%s> is now on the helper roster.", targetID), nil
		})
	case "remove":
		if !h.requireAdmin(s, i) {
			return
		}
		targetID := optionUserID(sub, "member")
		h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
			if err := h.modifyHelperEverywhere(ctx, i.GuildID, targetID, false); err != nil {
				return "", err
			}
			if err := h.helperRepo.Remove(ctx, targetID); err != nil {
				return "", err
			}
			return fmt.Sprintf("<@%s> was removed from the helper roster.", targetID), nil
		})
	case "available":
		available := optionBool(sub, "available")
		actorID := interactionUserID(i)
		h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
			if err := h.helperRepo.SetAvailable(ctx, actorID, available); err != nil {
				return "", err
			}
			if available {
				return "You are marked as available.", nil
			}
			return "You are marked as unavailable.", nil
		})
	}
}

func (h *Handler) handleRefresh(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}
	h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
		if err := h.helperSvc.RefreshChallenges(ctx, i.GuildID); err != nil {
			return "", err
		}
		return "Challenge catalog and helper solves refreshed.", nil
	})
}

func (h *Handler) buttonClose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
		res, err := h.closer.Execute(ctx, usecases.CloseTicketCommand{
			GuildID:   i.GuildID,
			ChannelID: i.ChannelID,
			ActorID:   interactionUserID(i),
		})
		if err != nil {
			return "", err
		}
		if res.AlreadyClosed {
			return "This ticket is already closed.", nil
		}
		return "Ticket closed.", nil
	})
}

func (h *Handler) buttonReopen(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.deferred(s, i, commandTimeout, func(ctx context.Context) (string, error) {
		res, err := h.reopener.Execute(ctx, usecases.ReopenTicketCommand{
			GuildID:   i.GuildID,
			ChannelID: i.ChannelID,
			ActorID:   interactionUserID(i),
		})
		if err != nil {
			return "", err
		}
		if res.AlreadyOpen {
			return "This ticket is already open.", nil
		}
		return "Ticket reopened.", nil
	})
}

func (h *Handler) buttonDelete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.runTicketDelete(s, i)
}

// modifyHelperEverywhere applies the helper change across the guild's open
// help channels. When a channel topic names a challenge the catalog does not
// know, the catalog is refreshed and the sweep retried once.
func (h *Handler) modifyHelperEverywhere(ctx context.Context, guildID, helperID string, grant bool) error {
	err := h.helperSvc.ModifyHelpersOnChannels(ctx, guildID, helperID, grant)
	if err == nil || !errors.IsChallengeDoesNotExist(err) {
		return err
	}

	h.logger.Infow("channel topic references unknown challenge, refreshing catalog",
		"guild_id", guildID, "error", err)
	if err := h.helperSvc.RefreshChallenges(ctx, guildID); err != nil {
		return err
	}
	return h.helperSvc.ModifyHelpersOnChannels(ctx, guildID, helperID, grant)
}

// requireAdmin acknowledges and refuses non-admin actors. Returns true when
// the actor may proceed.
func (h *Handler) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	isAdmin, err := h.roster.IsAdmin(ctx, i.GuildID, interactionUserID(i))
	if err != nil {
		h.logger.Errorw("admin check failed", "user_id", interactionUserID(i), "error", err)
		h.respond(s, i, "Could not verify your permissions, try again.")
		return false
	}
	if !isAdmin {
		h.respond(s, i, fmt.Sprintf("You need the %s role to do that.", h.cfg.AdminRole))
		return false
	}
	return true
}

// deferred acknowledges the interaction, runs fn off the gateway goroutine,
// and posts the outcome as an ephemeral followup.
func (h *Handler) deferred(s *discordgo.Session, i *discordgo.InteractionCreate, timeout time.Duration, fn func(ctx context.Context) (string, error)) {
	ack := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
	if err := s.InteractionRespond(i.Interaction, ack); err != nil {
		h.logger.Errorw("failed to acknowledge interaction", "error", err)
		return
	}

	goroutine.SafeGo(h.logger, "interaction", func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		content, err := fn(ctx)
		if err != nil {
			h.logger.Errorw("interaction failed",
				"channel_id", i.ChannelID, "user_id", interactionUserID(i), "error", err)
			content = userFacing(err)
		}
		_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		if err != nil {
			h.logger.Warnw("failed to send interaction followup", "error", err)
		}
	})
}

func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warnw("failed to respond to interaction", "error", err)
	}
}

// userFacing maps the error taxonomy to a message fit for the requester.
func userFacing(err error) string {
	switch {
	case errors.IsQuotaExceeded(err):
		return "You already have the maximum number of open tickets of this type."
	case errors.IsCategoryFull(err):
		return "The ticket category is full. Try again once some tickets are closed."
	case errors.IsUnknownTicket(err):
		return "This channel is not a ticket."
	case errors.IsDuplicateTicket(err):
		return "This channel already has a ticket."
	case errors.IsChallengeDoesNotExist(err):
		return "That challenge is not in the catalog, even after a refresh."
	case errors.IsHelperSync(err):
		return "Helper access is already in the requested state."
	case errors.IsConfiguration(err):
		return "The server is missing a ticket fixture, ask an admin to check the log channel setup."
	case stderrors.Is(err, context.DeadlineExceeded):
		return "Timed out waiting, try again."
	default:
		return "Something went wrong. The error has been logged."
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func interactionDisplayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil {
		if i.Member.Nick != "" {
			return i.Member.Nick
		}
		if i.Member.User != nil {
			return i.Member.User.Username
		}
	}
	if i.User != nil {
		return i.User.Username
	}
	return ""
}

func optionString(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func optionBool(sub *discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.BoolValue()
		}
	}
	return false
}

// optionUserID avoids UserValue's session round-trip; only the id is needed.
func optionUserID(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			if v, ok := opt.Value.(string); ok {
				return v
			}
		}
	}
	return ""
}
