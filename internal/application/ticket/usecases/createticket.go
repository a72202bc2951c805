package usecases

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/domain/challenge"
	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/errors"
	"ticketbot/internal/shared/logger"
	"ticketbot/internal/shared/syncutil"
)

type CreateTicketCommand struct {
	GuildID    string
	UserID     string
	Username   string
	TicketType string
}

type CreateTicketResult struct {
	ChannelID   string
	ChannelName string
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type CreateTicketUseCase struct {
	tickets    ticket.TicketRepository
	challenges challenge.ChallengeRepository
	channels   platform.ChannelGateway
	messages   platform.MessagingGateway
	roster     platform.RosterGateway
	locks      *syncutil.KeyedMutex
	cfg        Config
	logger     logger.Interface
}

func NewCreateTicketUseCase(
	tickets ticket.TicketRepository,
	challenges challenge.ChallengeRepository,
	channels platform.ChannelGateway,
	messages platform.MessagingGateway,
	roster platform.RosterGateway,
	locks *syncutil.KeyedMutex,
	cfg Config,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		tickets:    tickets,
		challenges: challenges,
		channels:   channels,
		messages:   messages,
		roster:     roster,
		locks:      locks,
		cfg:        cfg,
		logger:     logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	ticketType, err := vo.NewTicketType(cmd.TicketType)
	if err != nil {
		return nil, err
	}
	if cmd.GuildID == "" || cmd.UserID == "" {
		return nil, fmt.Errorf("guild ID and user ID are required")
	}

	if err := uc.enforceQuota(ctx, cmd, ticketType); err != nil {
		return nil, err
	}

	categoryID, err := uc.channels.EnsureCategory(ctx, cmd.GuildID, ticketType.CategoryName())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ticket category: %w", err)
	}

	count, err := uc.channels.CategoryChannelCount(ctx, cmd.GuildID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count category channels: %w", err)
	}
	if count >= uc.cfg.CategoryCap {
		fullErr := &errors.CategoryFullError{
			Category: ticketType.CategoryName(),
			Count:    count,
			Cap:      uc.cfg.CategoryCap,
		}
		uc.notifyPrivately(ctx, cmd.UserID, fullErr.Error())
		return nil, fullErr
	}

	seq, err := uc.tickets.NextSequence(ctx, ticketType)
	if err != nil {
		return nil, fmt.Errorf("failed to derive ticket number: %w", err)
	}
	channelName := ticketType.OpenChannelName(cmd.Username, seq)

	overwrites, err := uc.buildOverwrites(ctx, cmd)
	if err != nil {
		return nil, err
	}

	channelID, err := uc.channels.CreateTextChannel(ctx, cmd.GuildID, categoryID, channelName, overwrites)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket channel: %w", err)
	}

	// Channel creation and the store insert are a unit: if the insert fails
	// the channel must not survive as an untracked orphan. The insert takes
	// the channel lock so the other transitions see the row or nothing.
	uc.locks.WithLock(channelID, func() {
		var t *ticket.Ticket
		t, err = ticket.NewTicket(channelID, channelName, cmd.GuildID, cmd.UserID, cmd.Username, ticketType)
		if err == nil {
			err = uc.tickets.Create(ctx, t)
		}
	})
	if err != nil {
		uc.logger.Errorw("store insert failed after channel creation, removing channel",
			"channel_id", channelID, "error", err)
		if delErr := uc.channels.DeleteChannel(ctx, channelID); delErr != nil {
			uc.logger.Errorw("orphaned ticket channel could not be removed",
				"channel_id", channelID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to record ticket: %w", err)
	}

	uc.sendWelcome(ctx, cmd, ticketType, channelID)

	if ticketType == vo.TypeHelp {
		uc.runChallengeFlow(ctx, cmd, channelID)
	}

	// The ticket row is inserted exempt; arming it is the last step so a
	// half-created ticket is never nudged by the scanner.
	uc.armTicket(ctx, channelID)

	auditLog(ctx, uc.channels, uc.messages, uc.logger, uc.cfg,
		cmd.GuildID, cmd.UserID, channelID, "Created ticket")
	uc.logger.Infow("ticket created",
		"channel", channelName, "user_id", cmd.UserID, "type", ticketType.String())

	return &CreateTicketResult{ChannelID: channelID, ChannelName: channelName}, nil
}

// armTicket flips the fresh ticket from exempt to untouched. The creation
// flow can block for minutes and does not hold the channel lock while it
// waits, so the status is re-read under the lock: a ticket closed or deleted
// mid-flow is left alone.
func (uc *CreateTicketUseCase) armTicket(ctx context.Context, channelID string) {
	uc.locks.WithLock(channelID, func() {
		status, err := uc.tickets.GetStatus(ctx, channelID)
		if err != nil {
			uc.logger.Infow("ticket gone before arming", "channel_id", channelID, "error", err)
			return
		}
		if status != vo.StatusOpen {
			return
		}
		if err := uc.tickets.UpdateCheckState(ctx, channelID, vo.CheckUntouched); err != nil {
			uc.logger.Errorw("failed to arm ticket for auto-close", "channel_id", channelID, "error", err)
		}
	})
}

// enforceQuota rejects non-admin requesters who already hold the per-type
// maximum of open tickets. The requester is notified privately and no state
// is mutated.
func (uc *CreateTicketUseCase) enforceQuota(ctx context.Context, cmd CreateTicketCommand, ticketType vo.TicketType) error {
	isAdmin, err := uc.roster.IsAdmin(ctx, cmd.GuildID, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve admin status: %w", err)
	}
	if isAdmin {
		return nil
	}

	current, err := uc.tickets.CountOpenByUserAndType(ctx, cmd.UserID, ticketType)
	if err != nil {
		return fmt.Errorf("failed to count open tickets: %w", err)
	}
	limit := uc.cfg.limit(ticketType)
	if current >= limit {
		quotaErr := &errors.QuotaExceededError{
			UserID:     cmd.UserID,
			TicketType: ticketType.String(),
			Current:    current,
			Limit:      limit,
		}
		notice := fmt.Sprintf("You have reached the maximum limit (%d/%d) for this ticket type", current, limit)
		// Point submitters back at their open submission channel.
		if ticketType == vo.TypeSubmit {
			if existing, err := uc.tickets.FindOpenSubmitTicket(ctx, cmd.UserID); err == nil && existing != "" {
				notice += fmt.Sprintf(". Your open submission: <#%s>", existing)
			}
		}
		uc.notifyPrivately(ctx, cmd.UserID, notice)
		return quotaErr
	}
	return nil
}

func (uc *CreateTicketUseCase) buildOverwrites(ctx context.Context, cmd CreateTicketCommand) ([]platform.Overwrite, error) {
	adminRoleID, err := uc.roster.RoleID(ctx, cmd.GuildID, uc.cfg.AdminRole)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve admin role: %w", err)
	}

	overwrites := []platform.Overwrite{
		{Principal: platform.Everyone(cmd.GuildID), Read: false, Send: false},
		{Principal: platform.Member(cmd.UserID), Read: true, Send: true},
		{Principal: platform.Role(adminRoleID), Read: true, Send: true},
		{Principal: platform.Member(uc.roster.BotUserID()), Read: true, Send: true},
	}

	// The muted role keeps its restriction inside tickets too. Optional:
	// guilds without the role just skip the overwrite.
	if mutedRoleID, err := uc.roster.RoleID(ctx, cmd.GuildID, uc.cfg.MutedRole); err == nil && mutedRoleID != "" {
		overwrites = append(overwrites, platform.Overwrite{
			Principal: platform.Role(mutedRoleID), Read: false, Send: false,
		})
	}

	return overwrites, nil
}

func (uc *CreateTicketUseCase) sendWelcome(ctx context.Context, cmd CreateTicketCommand, ticketType vo.TicketType, channelID string) {
	pingMention, err := uc.roster.RoleMention(ctx, cmd.GuildID, uc.cfg.TicketPingRole)
	if err != nil {
		uc.logger.Warnw("ticket ping role unavailable", "error", err)
	}

	var greeting string
	if ticketType == vo.TypeSubmit {
		greeting = fmt.Sprintf("Welcome <@%s>\n", cmd.UserID)
	} else {
		greeting = fmt.Sprintf("Welcome <@%s>,\nA new ticket has been opened %s\n", cmd.UserID, pingMention)
	}

	embed := &platform.Embed{
		Description: ticketType.WelcomeMessage(pingMention),
		Color:       colorCreated,
	}

	messageID, err := uc.messages.Send(ctx, channelID, greeting, embed, platform.ControlClose)
	if err != nil {
		uc.logger.Errorw("failed to send welcome message", "channel_id", channelID, "error", err)
		return
	}
	if err := uc.messages.Pin(ctx, channelID, messageID); err != nil {
		uc.logger.Warnw("failed to pin welcome message", "channel_id", channelID, "error", err)
	}
	if err := uc.messages.PurgeScaffold(ctx, channelID, 1); err != nil {
		uc.logger.Warnw("failed to purge scaffold message", "channel_id", channelID, "error", err)
	}
}

// runChallengeFlow is the help-ticket interactive sub-flow: the requester
// picks the challenge they are stuck on, the challenge's authors and solver
// helpers are granted access, and the flow waits (bounded) for the
// requester's first message. Failures degrade: the ticket stays usable
// without challenge context.
func (uc *CreateTicketUseCase) runChallengeFlow(ctx context.Context, cmd CreateTicketCommand, channelID string) {
	flowCtx, cancel := context.WithTimeout(ctx, uc.cfg.SelectionWait)
	defer cancel()

	selected, err := uc.selectChallenge(flowCtx, cmd, channelID)
	if err != nil {
		uc.logger.Infow("challenge selection skipped", "channel_id", channelID, "error", err)
	} else if selected != nil {
		topic := fmt.Sprintf("%s - opened by %s", selected.Title(), cmd.Username)
		if err := uc.channels.SetTopic(ctx, channelID, topic); err != nil {
			uc.logger.Warnw("failed to set ticket topic", "channel_id", channelID, "error", err)
		}
		uc.grantChallengeAccess(ctx, cmd, channelID, selected)
	}

	if _, err := uc.messages.Send(ctx, channelID, "What have you tried so far?", nil); err != nil {
		uc.logger.Warnw("failed to send opening prompt", "channel_id", channelID, "error", err)
	}

	if err := uc.messages.AwaitUserMessage(flowCtx, channelID, cmd.UserID); err != nil {
		uc.logger.Infow("requester never replied during creation, proceeding",
			"channel_id", channelID, "error", err)
	}
}

func (uc *CreateTicketUseCase) selectChallenge(ctx context.Context, cmd CreateTicketCommand, channelID string) (*challenge.Challenge, error) {
	all, err := uc.challenges.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	// Ignored challenges are internal; a challenge the requester already
	// helped solve is not one they need help with.
	candidates := make([]*challenge.Challenge, 0, len(all))
	for _, c := range all {
		if c.Ignored() || c.HasHelper(cmd.UserID) {
			continue
		}
		candidates = append(candidates, c)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Platform select menus cap at 25 options; pre-filter by category when
	// the list is larger.
	if len(candidates) > 25 {
		categories := make(map[string]bool)
		for _, c := range candidates {
			categories[c.Category()] = true
		}
		names := make([]string, 0, len(categories))
		for name := range categories {
			names = append(names, name)
		}
		sort.Strings(names)

		options := make([]platform.SelectOption, 0, len(names))
		for _, name := range names {
			options = append(options, platform.SelectOption{Label: name, Value: name})
		}
		picked, err := uc.messages.PromptSelect(ctx, channelID, cmd.UserID, "Please choose a category", options)
		if err != nil {
			return nil, err
		}

		filtered := candidates[:0]
		for _, c := range candidates {
			if c.Category() == picked {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	options := make([]platform.SelectOption, 0, len(candidates))
	for _, c := range candidates {
		title := c.Title()
		if len(title) > 25 {
			title = title[:22] + "..."
		}
		options = append(options, platform.SelectOption{Label: title, Value: strconv.Itoa(c.ID())})
	}

	picked, err := uc.messages.PromptSelect(ctx, channelID, cmd.UserID, "Please choose a challenge", options)
	if err != nil {
		return nil, err
	}
	id, err := strconv.Atoi(picked)
	if err != nil {
		return nil, fmt.Errorf("unexpected selection value %q: %w", picked, err)
	}
	for _, c := range candidates {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("selected challenge %d not among candidates", id)
}

func (uc *CreateTicketUseCase) grantChallengeAccess(ctx context.Context, cmd CreateTicketCommand, channelID string, c *challenge.Challenge) {
	for _, author := range c.Authors() {
		memberID, err := uc.roster.MemberIDByName(ctx, cmd.GuildID, author)
		if err != nil || memberID == "" {
			uc.logger.Debugw("challenge author not in guild", "author", author, "error", err)
			continue
		}
		if err := uc.channels.SetPermission(ctx, channelID, platform.Member(memberID), true, true); err != nil {
			uc.logger.Warnw("failed to grant author access", "author", author, "error", err)
		}
	}

	for _, helperID := range c.HelperIDs() {
		if helperID == cmd.UserID {
			continue
		}
		if err := uc.channels.SetPermission(ctx, channelID, platform.Member(helperID), true, true); err != nil {
			uc.logger.Warnw("failed to grant helper access", "helper_id", helperID, "error", err)
		}
	}
}

func (uc *CreateTicketUseCase) notifyPrivately(ctx context.Context, userID, message string) {
	embed := &platform.Embed{Description: message, Color: colorNotice}
	if err := uc.messages.DirectMessage(ctx, userID, "", embed, nil); err != nil {
		uc.logger.Warnw("failed to notify requester privately", "user_id", userID, "error", err)
	}
}
