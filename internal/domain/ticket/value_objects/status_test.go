package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TicketStatus
		wantErr bool
	}{
		{name: "valid open status", input: "open", want: StatusOpen},
		{name: "valid closed status", input: "closed", want: StatusClosed},
		{name: "invalid status", input: "resolved", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTicketStatus(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid ticket status")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTicketStatus_Alternation(t *testing.T) {
	tests := []struct {
		name string
		from TicketStatus
		to   TicketStatus
		want bool
	}{
		{"open to closed", StatusOpen, StatusClosed, true},
		{"closed to open", StatusClosed, StatusOpen, true},
		{"open to open", StatusOpen, StatusOpen, false},
		{"closed to closed", StatusClosed, StatusClosed, false},
		{"invalid status cannot transition", TicketStatus("resolved"), StatusOpen, false},
		{"to invalid status", StatusOpen, TicketStatus("resolved"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.from.CanTransitionTo(tt.to)
			assert.Equal(t, tt.want, result, "transition from %s to %s", tt.from, tt.to)
		})
	}
}

func TestTicketStatus_StateCheckers(t *testing.T) {
	assert.True(t, StatusOpen.IsOpen())
	assert.False(t, StatusOpen.IsClosed())
	assert.True(t, StatusClosed.IsClosed())
	assert.False(t, StatusClosed.IsOpen())
	assert.False(t, TicketStatus("resolved").IsValid())
}

func TestTicketStatus_String(t *testing.T) {
	assert.Equal(t, "open", StatusOpen.String())
	assert.Equal(t, "closed", StatusClosed.String())
}
