// Package autoclose implements the inactivity scanner: a periodic sweep over
// open support tickets that nudges stale ones and closes those that stay
// silent past a second threshold period.
package autoclose

import (
	"context"
	"fmt"
	"time"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/application/ticket/usecases"
	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/logger"
)

const nudgeText = "Are you still working on this? The ticket will be closed if it stays inactive."

// Scanner sweeps open tickets on a schedule. Per ticket it applies the
// two-stage rule: an untouched ticket whose latest message is older than the
// threshold gets a nudge and moves to the nudged state; a nudged ticket that
// is still stale gets closed, while an admin reply drops it back to
// untouched. The nudge itself restarts the clock, so a silent ticket lives
// for two threshold periods before closing.
type Scanner struct {
	tickets   ticket.TicketRepository
	channels  platform.ChannelGateway
	messages  platform.MessagingGateway
	roster    platform.RosterGateway
	closer    usecases.CloseTicketExecutor
	threshold time.Duration
	// perTicketTimeout bounds each ticket's platform round trips so one
	// wedged channel cannot stall the sweep.
	perTicketTimeout time.Duration
	logger           logger.Interface

	now func() time.Time
}

func NewScanner(
	tickets ticket.TicketRepository,
	channels platform.ChannelGateway,
	messages platform.MessagingGateway,
	roster platform.RosterGateway,
	closer usecases.CloseTicketExecutor,
	threshold time.Duration,
	perTicketTimeout time.Duration,
	logger logger.Interface,
) *Scanner {
	return &Scanner{
		tickets:          tickets,
		channels:         channels,
		messages:         messages,
		roster:           roster,
		closer:           closer,
		threshold:        threshold,
		perTicketTimeout: perTicketTimeout,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *Scanner) Name() string {
	return "ticket-autoclose"
}

// Execute runs one sweep and returns the number of tickets it acted on
// (nudged or closed). Per-ticket failures are logged and skipped; the sweep
// never aborts halfway because one channel misbehaves.
func (s *Scanner) Execute(ctx context.Context) (int, error) {
	guildIDs, err := s.tickets.GuildIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list guilds: %w", err)
	}

	acted := 0
	for _, guildID := range guildIDs {
		open, err := s.tickets.ListOpenHelpTickets(ctx, guildID)
		if err != nil {
			s.logger.Errorw("failed to list open tickets", "guild_id", guildID, "error", err)
			continue
		}
		if exempt, err := s.tickets.ListExemptTickets(ctx, guildID); err == nil && len(exempt) > 0 {
			s.logger.Debugw("tickets exempt from auto-close", "guild_id", guildID, "count", len(exempt))
		}
		for _, t := range open {
			if t.CheckState().IsExempt() {
				continue
			}
			didAct, err := s.checkTicket(ctx, t)
			if err != nil {
				s.logger.Errorw("ticket check failed",
					"channel_id", t.ChannelID(), "channel", t.ChannelName(), "error", err)
				continue
			}
			if didAct {
				acted++
			}
		}
	}
	return acted, nil
}

func (s *Scanner) checkTicket(ctx context.Context, t *ticket.Ticket) (bool, error) {
	tctx, cancel := context.WithTimeout(ctx, s.perTicketTimeout)
	defer cancel()

	last, err := s.channels.FetchRecentMessage(tctx, t.ChannelID())
	if err != nil {
		return false, fmt.Errorf("failed to fetch latest message: %w", err)
	}
	if last == nil {
		// An empty channel gives no activity signal; leave the ticket alone.
		return false, nil
	}
	stale := s.now().Sub(last.CreatedAt) >= s.threshold

	switch t.CheckState() {
	case vo.CheckUntouched:
		if !stale {
			return false, nil
		}
		return true, s.nudge(tctx, t)

	case vo.CheckNudged:
		if !stale {
			// Only an admin reply cancels a pending nudge; the requester
			// answering the nudge does not restart the two-stage cycle.
			if s.authorIsAdmin(tctx, t.GuildID(), last) {
				return false, s.tickets.UpdateCheckState(tctx, t.ChannelID(), vo.CheckUntouched)
			}
			return false, nil
		}
		return true, s.close(tctx, t)
	}
	return false, nil
}

func (s *Scanner) authorIsAdmin(ctx context.Context, guildID string, m *platform.Message) bool {
	if m.AuthorIsBot || m.AuthorID == "" {
		return false
	}
	isAdmin, err := s.roster.IsAdmin(ctx, guildID, m.AuthorID)
	if err != nil {
		s.logger.Warnw("failed to resolve nudge-reply author", "user_id", m.AuthorID, "error", err)
		return false
	}
	return isAdmin
}

// nudge posts the reminder through a webhook that impersonates a random
// admin, so the prompt reads like a human follow-up rather than bot noise.
func (s *Scanner) nudge(ctx context.Context, t *ticket.Ticket) error {
	identity, err := s.roster.RandomAdmin(ctx, t.GuildID())
	if err != nil {
		return fmt.Errorf("failed to pick a nudge identity: %w", err)
	}
	mention := fmt.Sprintf("<@%s> %s", t.UserID(), nudgeText)
	if err := s.messages.SendAs(ctx, identity, t.ChannelID(), mention, platform.ControlClose); err != nil {
		return fmt.Errorf("failed to send nudge: %w", err)
	}
	if err := s.tickets.UpdateCheckState(ctx, t.ChannelID(), vo.CheckNudged); err != nil {
		return fmt.Errorf("failed to record nudge: %w", err)
	}
	s.logger.Infow("ticket nudged", "channel", t.ChannelName(), "as", identity.Name)
	return nil
}

func (s *Scanner) close(ctx context.Context, t *ticket.Ticket) error {
	botID := s.roster.BotUserID()
	if _, err := s.closer.Execute(ctx, usecases.CloseTicketCommand{
		GuildID:   t.GuildID(),
		ChannelID: t.ChannelID(),
		ActorID:   botID,
		Inactive:  true,
	}); err != nil {
		return fmt.Errorf("failed to close inactive ticket: %w", err)
	}
	// The closed ticket drops out of the sweep; the state reset keeps the
	// cycle sane if it is ever reopened.
	if err := s.tickets.UpdateCheckState(ctx, t.ChannelID(), vo.CheckUntouched); err != nil {
		s.logger.Warnw("failed to reset check state after close",
			"channel_id", t.ChannelID(), "error", err)
	}
	s.logger.Infow("ticket closed for inactivity", "channel", t.ChannelName())
	return nil
}
