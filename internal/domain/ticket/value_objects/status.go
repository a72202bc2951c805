package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusOpen   TicketStatus = "open"
	StatusClosed TicketStatus = "closed"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusOpen:   true,
	StatusClosed: true,
}

// Status strictly alternates: open -> closed -> open -> ... until the ticket
// is archived.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusOpen:   {StatusClosed},
	StatusClosed: {StatusOpen},
}

func (s TicketStatus) String() string {
	return string(s)
}

func (s TicketStatus) IsValid() bool {
	return validTicketStatuses[s]
}

func (s TicketStatus) IsOpen() bool {
	return s == StatusOpen
}

func (s TicketStatus) IsClosed() bool {
	return s == StatusClosed
}

func (s TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[s] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
