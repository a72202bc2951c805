package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/errors"
)

func TestToggleAutoClose(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    vo.CheckState
	}{
		{"disable exempts", false, vo.CheckExempt},
		{"enable arms", true, vo.CheckUntouched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *vo.CheckState
			tickets := &mockTicketRepository{
				updateCheckStateFunc: func(ctx context.Context, channelID string, state vo.CheckState) error {
					got = &state
					return nil
				},
			}
			uc := NewToggleAutoCloseUseCase(tickets, &mockMessagingGateway{}, testLogger())

			err := uc.Execute(context.Background(), ToggleAutoCloseCommand{
				ChannelID: "channel-1", ActorID: "user-2", Enabled: tt.enabled,
			})
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestToggleAutoClose_UnknownChannel(t *testing.T) {
	tickets := &mockTicketRepository{
		getStatusFunc: func(ctx context.Context, channelID string) (vo.TicketStatus, error) {
			return "", errors.NewUnknownTicketError(channelID)
		},
		updateCheckStateFunc: func(ctx context.Context, channelID string, state vo.CheckState) error {
			t.Fatal("unknown channels must not be mutated")
			return nil
		},
	}
	uc := NewToggleAutoCloseUseCase(tickets, &mockMessagingGateway{}, testLogger())

	err := uc.Execute(context.Background(), ToggleAutoCloseCommand{ChannelID: "channel-99", Enabled: true})
	assert.True(t, errors.IsUnknownTicket(err))
}
