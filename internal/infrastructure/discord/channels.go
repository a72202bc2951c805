// Package discord implements the platform gateways on top of discordgo. One
// live session backs all of them; the application layer only sees the
// gateway interfaces.
package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/shared/logger"
)

// ChannelService implements platform.ChannelGateway.
type ChannelService struct {
	session *discordgo.Session
	logger  logger.Interface
}

func NewChannelService(session *discordgo.Session, logger logger.Interface) *ChannelService {
	return &ChannelService{session: session, logger: logger}
}

var _ platform.ChannelGateway = (*ChannelService)(nil)

func (s *ChannelService) EnsureCategory(ctx context.Context, guildID, name string) (string, error) {
	channels, err := s.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list guild channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && strings.EqualFold(ch.Name, name) {
			return ch.ID, nil
		}
	}

	created, err := s.session.GuildChannelCreate(guildID, name, discordgo.ChannelTypeGuildCategory,
		discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to create category %q: %w", name, err)
	}
	s.logger.Infow("category created", "guild_id", guildID, "category", name)
	return created.ID, nil
}

func (s *ChannelService) CategoryChannelCount(ctx context.Context, guildID, categoryID string) (int, error) {
	channels, err := s.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to list guild channels: %w", err)
	}
	count := 0
	for _, ch := range channels {
		if ch.ParentID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *ChannelService) CreateTextChannel(ctx context.Context, guildID, categoryID, name string, overwrites []platform.Overwrite) (string, error) {
	data := discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             categoryID,
		PermissionOverwrites: toDiscordOverwrites(overwrites),
	}
	ch, err := s.session.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to create channel %q: %w", name, err)
	}
	return ch.ID, nil
}

func (s *ChannelService) MoveChannel(ctx context.Context, channelID, categoryID string) error {
	_, err := s.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		ParentID: categoryID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to move channel: %w", err)
	}
	return nil
}

func (s *ChannelService) RenameChannel(ctx context.Context, channelID, name string) error {
	_, err := s.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		Name: name,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to rename channel: %w", err)
	}
	return nil
}

func (s *ChannelService) SetPermission(ctx context.Context, channelID string, p platform.Principal, read, send bool) error {
	var allow, deny int64
	if read {
		allow |= discordgo.PermissionViewChannel
	} else {
		deny |= discordgo.PermissionViewChannel
	}
	if send {
		allow |= discordgo.PermissionSendMessages
	} else {
		deny |= discordgo.PermissionSendMessages
	}

	err := s.session.ChannelPermissionSet(channelID, p.ID, overwriteType(p), allow, deny,
		discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to set channel permission: %w", err)
	}
	return nil
}

func (s *ChannelService) ClearPermission(ctx context.Context, channelID string, p platform.Principal) error {
	if err := s.session.ChannelPermissionDelete(channelID, p.ID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to clear channel permission: %w", err)
	}
	return nil
}

func (s *ChannelService) HasMemberOverwrite(ctx context.Context, channelID, userID string) (bool, error) {
	ch, err := s.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to load channel: %w", err)
	}
	for _, ow := range ch.PermissionOverwrites {
		if ow.Type == discordgo.PermissionOverwriteTypeMember && ow.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ChannelService) DeleteChannel(ctx context.Context, channelID string) error {
	_, err := s.session.ChannelDelete(channelID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	return nil
}

func (s *ChannelService) FetchRecentMessage(ctx context.Context, channelID string) (*platform.Message, error) {
	msgs, err := s.session.ChannelMessages(channelID, 1, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest message: %w", err)
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	m := toPlatformMessage(msgs[0])
	return &m, nil
}

// History returns up to limit messages, oldest first.
func (s *ChannelService) History(ctx context.Context, channelID string, limit int) ([]platform.Message, error) {
	var out []platform.Message
	beforeID := ""
	for len(out) < limit {
		batch := limit - len(out)
		if batch > 100 {
			batch = 100
		}
		msgs, err := s.session.ChannelMessages(channelID, batch, beforeID, "", "",
			discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch channel history: %w", err)
		}
		if len(msgs) == 0 {
			break
		}
		for _, m := range msgs {
			out = append(out, toPlatformMessage(m))
		}
		beforeID = msgs[len(msgs)-1].ID
	}

	// The API hands messages newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *ChannelService) Topic(ctx context.Context, channelID string) (string, error) {
	ch, err := s.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to load channel: %w", err)
	}
	return ch.Topic, nil
}

func (s *ChannelService) SetTopic(ctx context.Context, channelID, topic string) error {
	_, err := s.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		Topic: topic,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to set channel topic: %w", err)
	}
	return nil
}

func (s *ChannelService) FindTextChannel(ctx context.Context, guildID, categoryName, name string) (string, error) {
	channels, err := s.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list guild channels: %w", err)
	}

	categoryID := ""
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && strings.EqualFold(ch.Name, categoryName) {
			categoryID = ch.ID
			break
		}
	}
	if categoryID == "" {
		return "", nil
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.ParentID == categoryID && strings.EqualFold(ch.Name, name) {
			return ch.ID, nil
		}
	}
	return "", nil
}

func toDiscordOverwrites(overwrites []platform.Overwrite) []*discordgo.PermissionOverwrite {
	out := make([]*discordgo.PermissionOverwrite, 0, len(overwrites))
	for _, ow := range overwrites {
		var allow, deny int64
		if ow.Read {
			allow |= discordgo.PermissionViewChannel
		} else {
			deny |= discordgo.PermissionViewChannel
		}
		if ow.Send {
			allow |= discordgo.PermissionSendMessages
		} else {
			deny |= discordgo.PermissionSendMessages
		}
		out = append(out, &discordgo.PermissionOverwrite{
			ID:    ow.Principal.ID,
			Type:  overwriteType(ow.Principal),
			Allow: allow,
			Deny:  deny,
		})
	}
	return out
}

func overwriteType(p platform.Principal) discordgo.PermissionOverwriteType {
	if p.Kind == platform.PrincipalRole {
		return discordgo.PermissionOverwriteTypeRole
	}
	return discordgo.PermissionOverwriteTypeMember
}

func toPlatformMessage(m *discordgo.Message) platform.Message {
	name := ""
	isBot := false
	authorID := ""
	if m.Author != nil {
		name = m.Author.Username
		isBot = m.Author.Bot
		authorID = m.Author.ID
	}
	return platform.Message{
		ID:          m.ID,
		AuthorID:    authorID,
		AuthorName:  name,
		AuthorIsBot: isBot,
		Content:     m.Content,
		CreatedAt:   m.Timestamp,
	}
}

func isNotFound(err error) bool {
	if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil {
		return restErr.Response.StatusCode == 404
	}
	return false
}
