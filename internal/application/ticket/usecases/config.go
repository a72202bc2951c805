package usecases

import (
	"time"

	vo "ticketbot/internal/domain/ticket/value_objects"
)

// Config carries the guild fixtures and policy knobs shared by the ticket
// use cases.
type Config struct {
	AdminRole      string
	HelperRole     string
	TicketPingRole string
	MutedRole      string

	LogCategory string
	LogChannel  string

	// CategoryCap is the platform channel-per-category limit.
	CategoryCap int

	// Limits overrides the per-type open-ticket quota; zero falls back to
	// the type default.
	Limits map[vo.TicketType]int

	// SelectionWait bounds the help-ticket challenge-selection flow,
	// including the wait for the requester's first message.
	SelectionWait time.Duration

	// DeleteGrace is how long the countdown notice stays up before the
	// channel is removed.
	DeleteGrace time.Duration

	TranscriptDomain string
	TranscriptPort   int
}

func DefaultConfig() Config {
	return Config{
		AdminRole:      "Board",
		HelperRole:     "Helper",
		TicketPingRole: "Available Mods",
		MutedRole:      "Muted",
		LogCategory:    "logs",
		LogChannel:     "ticket-log",
		CategoryCap:    50,
		SelectionWait:  10 * time.Minute,
		DeleteGrace:    5 * time.Second,
	}
}

func (c Config) limit(t vo.TicketType) int {
	if n, ok := c.Limits[t]; ok && n > 0 {
		return n
	}
	return t.DefaultLimit()
}
