package discord

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/bwmarrin/discordgo"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/shared/logger"
)

// RosterService implements platform.RosterGateway. Role checks go by role
// name; the guild's role ids are resolved on demand.
type RosterService struct {
	session   *discordgo.Session
	adminRole string
	logger    logger.Interface
}

func NewRosterService(session *discordgo.Session, adminRole string, logger logger.Interface) *RosterService {
	return &RosterService{session: session, adminRole: adminRole, logger: logger}
}

var _ platform.RosterGateway = (*RosterService)(nil)

func (s *RosterService) IsAdmin(ctx context.Context, guildID, userID string) (bool, error) {
	adminRoleID, err := s.RoleID(ctx, guildID, s.adminRole)
	if err != nil {
		return false, err
	}
	member, err := s.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to load member: %w", err)
	}
	for _, roleID := range member.Roles {
		if roleID == adminRoleID {
			return true, nil
		}
	}
	return false, nil
}

// RandomAdmin picks one admin-role member. Used by the inactivity nudge so
// the reminder reads as a human follow-up.
func (s *RosterService) RandomAdmin(ctx context.Context, guildID string) (platform.Identity, error) {
	adminRoleID, err := s.RoleID(ctx, guildID, s.adminRole)
	if err != nil {
		return platform.Identity{}, err
	}

	var admins []*discordgo.Member
	after := ""
	for {
		members, err := s.session.GuildMembers(guildID, after, 1000, discordgo.WithContext(ctx))
		if err != nil {
			return platform.Identity{}, fmt.Errorf("failed to list members: %w", err)
		}
		if len(members) == 0 {
			break
		}
		for _, m := range members {
			for _, roleID := range m.Roles {
				if roleID == adminRoleID {
					admins = append(admins, m)
					break
				}
			}
		}
		after = members[len(members)-1].User.ID
		if len(members) < 1000 {
			break
		}
	}
	if len(admins) == 0 {
		return platform.Identity{}, fmt.Errorf("no members carry the %q role", s.adminRole)
	}

	picked := admins[rand.Intn(len(admins))]
	return platform.Identity{
		Name:      memberDisplayName(picked),
		AvatarURL: picked.User.AvatarURL(""),
	}, nil
}

func (s *RosterService) MemberName(ctx context.Context, guildID, userID string) (string, error) {
	member, err := s.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to load member: %w", err)
	}
	return memberDisplayName(member), nil
}

// MemberIDByName resolves a member by display name or username,
// case-insensitively. Returns "" when nobody matches.
func (s *RosterService) MemberIDByName(ctx context.Context, guildID, name string) (string, error) {
	members, err := s.session.GuildMembersSearch(guildID, name, 10, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to search members: %w", err)
	}
	for _, m := range members {
		if strings.EqualFold(memberDisplayName(m), name) || strings.EqualFold(m.User.Username, name) {
			return m.User.ID, nil
		}
	}
	return "", nil
}

func (s *RosterService) RoleID(ctx context.Context, guildID, roleName string) (string, error) {
	roles, err := s.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list roles: %w", err)
	}
	for _, r := range roles {
		if strings.EqualFold(r.Name, roleName) {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("role %q not found in guild %s", roleName, guildID)
}

func (s *RosterService) RoleMention(ctx context.Context, guildID, roleName string) (string, error) {
	roleID, err := s.RoleID(ctx, guildID, roleName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<@&%s>", roleID), nil
}

func (s *RosterService) BotUserID() string {
	if s.session.State != nil && s.session.State.User != nil {
		return s.session.State.User.ID
	}
	return ""
}

func memberDisplayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		return m.User.Username
	}
	return ""
}
