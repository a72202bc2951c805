package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbot/internal/application/platform"
)

func newParticipantUseCase(tickets *mockTicketRepository, channels *mockChannelGateway) *ModifyParticipantUseCase {
	return NewModifyParticipantUseCase(tickets, channels, &mockMessagingGateway{}, DefaultConfig(), testLogger())
}

func TestModifyParticipant_Grant(t *testing.T) {
	var granted *platform.Principal
	channels := &mockChannelGateway{
		setPermissionFunc: func(ctx context.Context, channelID string, p platform.Principal, read, send bool) error {
			granted = &p
			assert.True(t, read)
			assert.True(t, send)
			return nil
		},
	}
	tickets := &mockTicketRepository{
		getOwnerFunc: func(ctx context.Context, channelID string) (string, error) {
			return "user-1", nil
		},
	}
	uc := newParticipantUseCase(tickets, channels)

	err := uc.Execute(context.Background(), ModifyParticipantCommand{
		GuildID: "guild-1", ChannelID: "channel-1", ActorID: "user-1", TargetID: "user-3", Grant: true,
	})
	require.NoError(t, err)
	require.NotNil(t, granted)
	assert.Equal(t, platform.Member("user-3"), *granted)
}

func TestModifyParticipant_OwnerCannotBeRemoved(t *testing.T) {
	channels := &mockChannelGateway{
		clearPermissionFunc: func(ctx context.Context, channelID string, p platform.Principal) error {
			t.Fatal("the owner overwrite must stay")
			return nil
		},
	}
	tickets := &mockTicketRepository{
		getOwnerFunc: func(ctx context.Context, channelID string) (string, error) {
			return "user-1", nil
		},
	}
	uc := newParticipantUseCase(tickets, channels)

	err := uc.Execute(context.Background(), ModifyParticipantCommand{
		GuildID: "guild-1", ChannelID: "channel-1", ActorID: "user-2", TargetID: "user-1", Grant: false,
	})
	assert.ErrorContains(t, err, "owner")
}
