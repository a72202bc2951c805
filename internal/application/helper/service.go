// Package helper keeps the helper roster in step with the external challenge
// system: the challenge catalog is bulk-refreshed, each roster member's
// solves are unioned into the per-challenge helper set, and open help
// channels get their helper overwrites adjusted.
package helper

import (
	"context"
	"fmt"
	"strings"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/domain/challenge"
	"ticketbot/internal/domain/ticket"
	"ticketbot/internal/shared/errors"
	"ticketbot/internal/shared/logger"
	"ticketbot/internal/shared/syncutil"
)

// ChallengeInfo is one released challenge as reported by the external API.
type ChallengeInfo struct {
	ID       int
	Title    string
	Author   string
	Category string
}

// ChallengeAPI is the external challenge system. Both calls report empty
// results on upstream failure; the service treats empty as "no action".
type ChallengeAPI interface {
	ReleasedChallenges(ctx context.Context) ([]ChallengeInfo, error)
	// SolvedChallengeIDs resolves the member's solves, expanding through
	// their team when the system tracks solves per team.
	SolvedChallengeIDs(ctx context.Context, discordID string) ([]int, error)
}

type Service struct {
	challenges challenge.ChallengeRepository
	helpers    challenge.HelperRepository
	tickets    ticket.TicketRepository
	channels   platform.ChannelGateway
	roster     platform.RosterGateway
	api        ChallengeAPI
	locks      *syncutil.KeyedMutex
	logger     logger.Interface
}

func NewService(
	challenges challenge.ChallengeRepository,
	helpers challenge.HelperRepository,
	tickets ticket.TicketRepository,
	channels platform.ChannelGateway,
	roster platform.RosterGateway,
	api ChallengeAPI,
	locks *syncutil.KeyedMutex,
	logger logger.Interface,
) *Service {
	return &Service{
		challenges: challenges,
		helpers:    helpers,
		tickets:    tickets,
		channels:   channels,
		roster:     roster,
		api:        api,
		locks:      locks,
		logger:     logger,
	}
}

// RefreshChallenges rebuilds the catalog from the external API and then
// re-derives every helper association. An empty fetch leaves the existing
// catalog untouched so an upstream outage never wipes local state.
func (s *Service) RefreshChallenges(ctx context.Context, guildID string) error {
	infos, err := s.api.ReleasedChallenges(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch released challenges: %w", err)
	}
	if len(infos) == 0 {
		s.logger.Warnw("challenge API returned nothing, keeping current catalog")
		return nil
	}

	challenges := make([]*challenge.Challenge, 0, len(infos))
	for _, info := range infos {
		ignore := s.isAdminAuthored(ctx, guildID, info.Author)
		c, err := challenge.NewChallenge(info.ID, info.Title, info.Author, info.Category, ignore)
		if err != nil {
			s.logger.Warnw("skipping malformed challenge", "id", info.ID, "title", info.Title, "error", err)
			continue
		}
		challenges = append(challenges, c)
	}
	if err := s.challenges.ReplaceAll(ctx, challenges); err != nil {
		return fmt.Errorf("failed to replace challenge catalog: %w", err)
	}
	s.logger.Infow("challenge catalog refreshed", "count", len(challenges))

	// The replace dropped every helper association; rebuild them before
	// anyone routes a ticket off stale data.
	return s.SyncHelperSolves(ctx)
}

// isAdminAuthored reports whether any co-author of the challenge is a guild
// admin. Admin-authored challenges stay out of ticket routing.
func (s *Service) isAdminAuthored(ctx context.Context, guildID, author string) bool {
	for _, name := range strings.Split(author, "/") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		memberID, err := s.roster.MemberIDByName(ctx, guildID, name)
		if err != nil || memberID == "" {
			continue
		}
		if isAdmin, err := s.roster.IsAdmin(ctx, guildID, memberID); err == nil && isAdmin {
			return true
		}
	}
	return false
}

// SyncHelperSolves unions every roster member's solves into the matching
// challenges. Solve ids that reference no known challenge are skipped; the
// external system occasionally reports retired ids.
func (s *Service) SyncHelperSolves(ctx context.Context) error {
	roster, err := s.helpers.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list helper roster: %w", err)
	}

	for _, h := range roster {
		ids, err := s.api.SolvedChallengeIDs(ctx, h.DiscordID())
		if err != nil {
			s.logger.Warnw("failed to fetch solves", "helper_id", h.DiscordID(), "error", err)
			continue
		}
		for _, id := range ids {
			c, err := s.challenges.GetByID(ctx, id)
			if err != nil || c == nil {
				continue
			}
			if err := s.challenges.AddHelper(ctx, id, h.DiscordID()); err != nil {
				s.logger.Warnw("failed to record solve",
					"helper_id", h.DiscordID(), "challenge_id", id, "error", err)
			}
		}
	}
	s.logger.Infow("helper solves synced", "roster_size", len(roster))
	return nil
}

// ModifyHelperOnChannel grants or revokes one helper on one ticket channel.
// Granting an already-present helper fails with HelperSyncError so callers
// surface roster drift instead of silently re-granting; the ticket owner can
// never be revoked.
func (s *Service) ModifyHelperOnChannel(ctx context.Context, channelID, helperID string, grant bool) error {
	var err error
	// Overwrite edits share the channel lock with the ticket state machine so
	// a grant never races a close moving the channel.
	s.locks.WithLock(channelID, func() {
		err = s.modifyHelperOnChannel(ctx, channelID, helperID, grant)
	})
	return err
}

func (s *Service) modifyHelperOnChannel(ctx context.Context, channelID, helperID string, grant bool) error {
	if grant {
		present, err := s.channels.HasMemberOverwrite(ctx, channelID, helperID)
		if err != nil {
			return fmt.Errorf("failed to inspect channel overwrites: %w", err)
		}
		if present {
			return errors.NewHelperSyncError(
				fmt.Sprintf("helper %s already has access to channel %s", helperID, channelID))
		}
		return s.channels.SetPermission(ctx, channelID, platform.Member(helperID), true, true)
	}

	owner, err := s.tickets.GetOwner(ctx, channelID)
	if err != nil {
		return err
	}
	if helperID == owner {
		return errors.NewHelperSyncError(
			fmt.Sprintf("refusing to revoke ticket owner %s on channel %s", helperID, channelID))
	}
	return s.channels.ClearPermission(ctx, channelID, platform.Member(helperID))
}

// ModifyHelpersOnChannels sweeps every open help ticket in the guild and
// applies the helper change to the channels whose challenge the helper
// solved. The challenge is resolved from the channel topic; a topic naming a
// challenge the catalog does not know fails with ChallengeDoesNotExistError,
// and the caller is expected to refresh the catalog and retry once.
func (s *Service) ModifyHelpersOnChannels(ctx context.Context, guildID, helperID string, grant bool) error {
	open, err := s.tickets.ListOpenHelpTickets(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to list open tickets: %w", err)
	}

	for _, t := range open {
		topic, err := s.channels.Topic(ctx, t.ChannelID())
		if err != nil {
			s.logger.Warnw("failed to read channel topic", "channel_id", t.ChannelID(), "error", err)
			continue
		}
		title := challengeTitleFromTopic(topic)
		if title == "" {
			continue
		}

		c, err := s.challenges.GetByTitle(ctx, title)
		if err != nil {
			return err
		}
		if c == nil {
			return errors.NewChallengeDoesNotExistError(title, 0)
		}
		if !c.HasHelper(helperID) {
			continue
		}
		if t.UserID() == helperID {
			continue
		}

		if err := s.ModifyHelperOnChannel(ctx, t.ChannelID(), helperID, grant); err != nil {
			if errors.IsHelperSync(err) {
				s.logger.Debugw("helper overwrite already in place",
					"channel_id", t.ChannelID(), "helper_id", helperID)
				continue
			}
			return err
		}
	}
	return nil
}

// challengeTitleFromTopic recovers the title from the "<title> - opened by
// <user>" topic convention. Channels without a challenge topic return "".
func challengeTitleFromTopic(topic string) string {
	if topic == "" {
		return ""
	}
	if i := strings.Index(topic, " - "); i > 0 {
		return topic[:i]
	}
	return ""
}
