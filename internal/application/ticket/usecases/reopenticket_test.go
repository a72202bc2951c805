package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/syncutil"
)

func newReopenUseCase(tickets *mockTicketRepository, channels *mockChannelGateway) *ReopenTicketUseCase {
	return NewReopenTicketUseCase(tickets, channels, &mockMessagingGateway{},
		syncutil.NewKeyedMutex(), DefaultConfig(), testLogger())
}

func TestReopenTicket_AlreadyOpenIsNoOp(t *testing.T) {
	tickets := &mockTicketRepository{
		getByChannelIDFunc: func(ctx context.Context, channelID string) (*ticket.Ticket, error) {
			return openTicket(t, "help-alice-2"), nil
		},
		updateStatusFunc: func(ctx context.Context, channelID string, status vo.TicketStatus) error {
			t.Fatal("reopening an open ticket must not mutate state")
			return nil
		},
	}
	uc := newReopenUseCase(tickets, &mockChannelGateway{})

	result, err := uc.Execute(context.Background(), ReopenTicketCommand{
		GuildID: "guild-1", ChannelID: "channel-1", ActorID: "user-2",
	})
	require.NoError(t, err)
	assert.True(t, result.AlreadyOpen)
}

func TestReopenTicket_RestoresOpenName(t *testing.T) {
	var recordedName string
	var recordedStatus vo.TicketStatus
	var checkState *vo.CheckState
	tickets := &mockTicketRepository{
		getByChannelIDFunc: func(ctx context.Context, channelID string) (*ticket.Ticket, error) {
			return closedTicket(t, "help-closed-alice-2"), nil
		},
		renameFunc: func(ctx context.Context, channelID, newName string) error {
			recordedName = newName
			return nil
		},
		updateStatusFunc: func(ctx context.Context, channelID string, status vo.TicketStatus) error {
			recordedStatus = status
			return nil
		},
		updateCheckStateFunc: func(ctx context.Context, channelID string, state vo.CheckState) error {
			checkState = &state
			return nil
		},
	}
	var movedTo string
	channels := &mockChannelGateway{
		ensureCategoryFunc: func(ctx context.Context, guildID, name string) (string, error) {
			assert.Equal(t, "support tickets", name)
			return "category-open", nil
		},
		moveChannelFunc: func(ctx context.Context, channelID, categoryID string) error {
			movedTo = categoryID
			return nil
		},
	}
	uc := newReopenUseCase(tickets, channels)

	result, err := uc.Execute(context.Background(), ReopenTicketCommand{
		GuildID: "guild-1", ChannelID: "channel-1", ActorID: "user-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "help-alice-2", result.ChannelName)
	assert.Equal(t, "help-alice-2", recordedName)
	assert.Equal(t, vo.StatusOpen, recordedStatus)
	assert.Equal(t, "category-open", movedTo)
	require.NotNil(t, checkState, "reopening resets the inactivity countdown")
	assert.Equal(t, vo.CheckUntouched, *checkState)
}
