package discord

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/shared/logger"
)

// relayWebhookName identifies webhooks this bot creates for impersonated
// sends, so stale ones can be recognized and reused.
const relayWebhookName = "ticket-relay"

var controlLabels = map[platform.Control]struct {
	label string
	style discordgo.ButtonStyle
}{
	platform.ControlClose:  {"Close", discordgo.DangerButton},
	platform.ControlReopen: {"Reopen", discordgo.PrimaryButton},
	platform.ControlDelete: {"Delete", discordgo.DangerButton},
}

// MessagingService implements platform.MessagingGateway.
type MessagingService struct {
	session *discordgo.Session
	logger  logger.Interface

	promptSeq atomic.Uint64
}

func NewMessagingService(session *discordgo.Session, logger logger.Interface) *MessagingService {
	return &MessagingService{session: session, logger: logger}
}

var _ platform.MessagingGateway = (*MessagingService)(nil)

func (s *MessagingService) Send(ctx context.Context, channelID, content string, embed *platform.Embed, controls ...platform.Control) (string, error) {
	send := &discordgo.MessageSend{
		Content:    content,
		Components: controlComponents(controls),
	}
	if embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{toDiscordEmbed(embed)}
	}
	msg, err := s.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

func (s *MessagingService) SendFile(ctx context.Context, channelID, content string, attachment *platform.Attachment) (string, error) {
	send := &discordgo.MessageSend{
		Content: content,
		Files: []*discordgo.File{{
			Name:   attachment.Name,
			Reader: bytes.NewReader(attachment.Data),
		}},
	}
	msg, err := s.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send file: %w", err)
	}
	return msg.ID, nil
}

// SendAs relays content through a short-lived webhook wearing the given
// identity. The webhook is removed afterwards so channels do not accumulate
// relay hooks.
func (s *MessagingService) SendAs(ctx context.Context, identity platform.Identity, channelID, content string, controls ...platform.Control) error {
	hook, err := s.session.WebhookCreate(channelID, relayWebhookName, "", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create relay webhook: %w", err)
	}
	defer func() {
		if err := s.session.WebhookDelete(hook.ID); err != nil {
			s.logger.Warnw("failed to remove relay webhook", "channel_id", channelID, "error", err)
		}
	}()

	params := &discordgo.WebhookParams{
		Content:    content,
		Username:   identity.Name,
		AvatarURL:  identity.AvatarURL,
		Components: controlComponents(controls),
	}
	if _, err := s.session.WebhookExecute(hook.ID, hook.Token, true, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to execute relay webhook: %w", err)
	}
	return nil
}

func (s *MessagingService) DirectMessage(ctx context.Context, userID, content string, embed *platform.Embed, attachment *platform.Attachment) error {
	dm, err := s.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	send := &discordgo.MessageSend{Content: content}
	if embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{toDiscordEmbed(embed)}
	}
	if attachment != nil {
		send.Files = []*discordgo.File{{
			Name:   attachment.Name,
			Reader: bytes.NewReader(attachment.Data),
		}}
	}
	if _, err := s.session.ChannelMessageSendComplex(dm.ID, send, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

func (s *MessagingService) Pin(ctx context.Context, channelID, messageID string) error {
	if err := s.session.ChannelMessagePin(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to pin message: %w", err)
	}
	return nil
}

// PurgeScaffold removes the most recent limit non-pinned messages.
func (s *MessagingService) PurgeScaffold(ctx context.Context, channelID string, limit int) error {
	msgs, err := s.session.ChannelMessages(channelID, limit+10, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to list messages: %w", err)
	}
	removed := 0
	for _, m := range msgs {
		if removed >= limit {
			break
		}
		if m.Pinned {
			continue
		}
		if err := s.session.ChannelMessageDelete(channelID, m.ID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to delete scaffold message: %w", err)
		}
		removed++
	}
	return nil
}

// PromptSelect posts a single-choice select menu and blocks until the user
// submits a choice or ctx expires. Submissions from other users and empty
// submissions are acknowledged and ignored.
func (s *MessagingService) PromptSelect(ctx context.Context, channelID, userID, placeholder string, options []platform.SelectOption) (string, error) {
	customID := fmt.Sprintf("prompt:%s:%d", channelID, s.promptSeq.Add(1))

	menuOptions := make([]discordgo.SelectMenuOption, 0, len(options))
	for _, opt := range options {
		menuOptions = append(menuOptions, discordgo.SelectMenuOption{
			Label: opt.Label,
			Value: opt.Value,
		})
	}
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    customID,
				Placeholder: placeholder,
				Options:     menuOptions,
			},
		}},
	}

	picked := make(chan string, 1)
	remove := s.session.AddHandler(func(sess *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionMessageComponent {
			return
		}
		data := i.MessageComponentData()
		if data.CustomID != customID {
			return
		}
		ack := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
		if err := sess.InteractionRespond(i.Interaction, ack); err != nil {
			s.logger.Warnw("failed to acknowledge selection", "error", err)
		}
		if interactionUserID(i) != userID || len(data.Values) == 0 {
			return
		}
		select {
		case picked <- data.Values[0]:
		default:
		}
	})
	defer remove()

	msg, err := s.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    placeholder,
		Components: components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send select prompt: %w", err)
	}
	defer func() {
		if err := s.session.ChannelMessageDelete(channelID, msg.ID); err != nil {
			s.logger.Debugw("failed to remove select prompt", "error", err)
		}
	}()

	select {
	case value := <-picked:
		return value, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// AwaitUserMessage blocks until the user posts in the channel or ctx expires.
func (s *MessagingService) AwaitUserMessage(ctx context.Context, channelID, userID string) error {
	seen := make(chan struct{}, 1)
	remove := s.session.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != channelID || m.Author == nil || m.Author.ID != userID {
			return
		}
		select {
		case seen <- struct{}{}:
		default:
		}
	})
	defer remove()

	select {
	case <-seen:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func controlComponents(controls []platform.Control) []discordgo.MessageComponent {
	if len(controls) == 0 {
		return nil
	}
	buttons := make([]discordgo.MessageComponent, 0, len(controls))
	for _, c := range controls {
		meta, ok := controlLabels[c]
		if !ok {
			continue
		}
		buttons = append(buttons, discordgo.Button{
			Label:    meta.label,
			Style:    meta.style,
			CustomID: string(c),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func toDiscordEmbed(e *platform.Embed) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(e.Fields))
	for _, f := range e.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: true,
		})
	}
	return &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
		Fields:      fields,
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
