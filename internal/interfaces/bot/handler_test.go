package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/application/ticket/usecases"
	"ticketbot/internal/shared/errors"
	"ticketbot/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newBareHandler() *Handler {
	return NewHandler(nil, nil, nil, nil, nil, nil, nil, nil, nil,
		usecases.DefaultConfig(), testLogger())
}

func TestNewHandler_DispatchMaps(t *testing.T) {
	h := newBareHandler()

	for _, name := range []string{"ticket", "autoclose", "helper", "refresh"} {
		assert.Contains(t, h.commands, name)
	}
	for _, id := range []platform.Control{platform.ControlClose, platform.ControlReopen, platform.ControlDelete} {
		assert.Contains(t, h.buttons, string(id))
	}

	// Every registered command has a dispatch entry and vice versa.
	require.Len(t, h.commands, len(Commands))
	for _, cmd := range Commands {
		assert.Contains(t, h.commands, cmd.Name)
	}
}

func TestUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"quota", &errors.QuotaExceededError{UserID: "u", TicketType: "help", Current: 3, Limit: 3},
			"You already have the maximum number of open tickets of this type."},
		{"category full", &errors.CategoryFullError{Category: "support tickets", Count: 50, Cap: 50},
			"The ticket category is full. Try again once some tickets are closed."},
		{"unknown ticket", errors.NewUnknownTicketError("c1"),
			"This channel is not a ticket."},
		{"timeout", fmt.Errorf("waiting for reply: %w", context.DeadlineExceeded),
			"Timed out waiting, try again."},
		{"opaque", fmt.Errorf("disk full"),
			"Something went wrong. The error has been logged."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userFacing(tt.err))
		})
	}
}

func TestOptionExtraction(t *testing.T) {
	sub := &discordgo.ApplicationCommandInteractionDataOption{
		Name: "create",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "type", Type: discordgo.ApplicationCommandOptionString, Value: "help"},
			{Name: "member", Type: discordgo.ApplicationCommandOptionUser, Value: "123456"},
			{Name: "available", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
		},
	}

	assert.Equal(t, "help", optionString(sub, "type"))
	assert.Equal(t, "", optionString(sub, "missing"))
	assert.Equal(t, "123456", optionUserID(sub, "member"))
	assert.True(t, optionBool(sub, "available"))
	assert.False(t, optionBool(sub, "missing"))
}

func TestInteractionIdentity(t *testing.T) {
	guildInteraction := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{
			Nick: "ace",
			User: &discordgo.User{ID: "user-1", Username: "alice"},
		},
	}}
	assert.Equal(t, "user-1", interactionUserID(guildInteraction))
	assert.Equal(t, "ace", interactionDisplayName(guildInteraction))

	noNick := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "user-2", Username: "bob"}},
	}}
	assert.Equal(t, "bob", interactionDisplayName(noNick))

	dmInteraction := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "user-3", Username: "carol"},
	}}
	assert.Equal(t, "user-3", interactionUserID(dmInteraction))
	assert.Equal(t, "carol", interactionDisplayName(dmInteraction))
}
