package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{"duplicate ticket", NewDuplicateTicketError("123"), IsDuplicateTicket},
		{"unknown ticket", NewUnknownTicketError("123"), IsUnknownTicket},
		{"quota exceeded", &QuotaExceededError{UserID: "42", TicketType: "help", Current: 3, Limit: 3}, IsQuotaExceeded},
		{"category full", &CategoryFullError{Category: "support tickets", Count: 50, Cap: 50}, IsCategoryFull},
		{"challenge missing", &ChallengeDoesNotExistError{ID: 7}, IsChallengeDoesNotExist},
		{"helper sync", NewHelperSyncError("already present"), IsHelperSync},
		{"configuration", NewConfigurationError("ticket-log channel missing"), IsConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.predicate(tt.err))
			assert.True(t, tt.predicate(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.predicate(fmt.Errorf("plain error")))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "channel 99 is not a ticket", NewUnknownTicketError("99").Error())
	assert.Equal(t, "user 42 reached the help ticket limit (3/3)",
		(&QuotaExceededError{UserID: "42", TicketType: "help", Current: 3, Limit: 3}).Error())
	assert.Equal(t, `challenge "web-baby" does not exist`,
		(&ChallengeDoesNotExistError{Title: "web-baby"}).Error())
	assert.Equal(t, "challenge 12 does not exist",
		(&ChallengeDoesNotExistError{ID: 12}).Error())
}
