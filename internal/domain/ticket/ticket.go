package ticket

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	vo "ticketbot/internal/domain/ticket/value_objects"
)

// Ticket is one support request backed by a dedicated guild channel. The
// store row is the source of truth; the live channel (name, overwrites,
// category) is a cache kept consistent by every mutating operation.
type Ticket struct {
	channelID   string
	channelName string
	guildID     string
	userID      string
	username    string
	ticketType  vo.TicketType
	status      vo.TicketStatus
	checkState  vo.CheckState
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTicket creates the row for a freshly created channel. New tickets start
// open and exempt from auto-close; the creation flow arms them once the
// channel is fully set up, so a half-created ticket is never nudged.
func NewTicket(channelID, channelName, guildID, userID, username string, ticketType vo.TicketType) (*Ticket, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel ID is required")
	}
	if channelName == "" {
		return nil, fmt.Errorf("channel name is required")
	}
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !ticketType.IsValid() {
		return nil, fmt.Errorf("invalid ticket type: %s", ticketType)
	}

	now := time.Now()
	return &Ticket{
		channelID:   channelID,
		channelName: channelName,
		guildID:     guildID,
		userID:      userID,
		username:    username,
		ticketType:  ticketType,
		status:      vo.StatusOpen,
		checkState:  vo.CheckExempt,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructTicket(
	channelID, channelName, guildID, userID, username string,
	ticketType vo.TicketType,
	status vo.TicketStatus,
	checkState vo.CheckState,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel ID is required")
	}
	if !ticketType.IsValid() {
		return nil, fmt.Errorf("invalid ticket type: %s", ticketType)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if !checkState.IsValid() {
		return nil, fmt.Errorf("invalid check state: %d", checkState)
	}

	return &Ticket{
		channelID:   channelID,
		channelName: channelName,
		guildID:     guildID,
		userID:      userID,
		username:    username,
		ticketType:  ticketType,
		status:      status,
		checkState:  checkState,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (t *Ticket) ChannelID() string {
	return t.channelID
}

func (t *Ticket) ChannelName() string {
	return t.channelName
}

func (t *Ticket) GuildID() string {
	return t.guildID
}

func (t *Ticket) UserID() string {
	return t.userID
}

func (t *Ticket) Username() string {
	return t.username
}

func (t *Ticket) Type() vo.TicketType {
	return t.ticketType
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) CheckState() vo.CheckState {
	return t.checkState
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

// SequenceNumber recovers the per-type sequence number encoded in the
// channel name. Submit tickets carry no number.
func (t *Ticket) SequenceNumber() int {
	name := strings.ToLower(t.channelName)
	parts := strings.Split(name, "-")
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return n
}

// Close transitions the ticket to closed. Closing an already closed ticket
// is rejected so the caller can report a no-op without re-firing side
// effects.
func (t *Ticket) Close() error {
	if !t.status.CanTransitionTo(vo.StatusClosed) {
		return fmt.Errorf("cannot close ticket with status %s", t.status)
	}
	t.status = vo.StatusClosed
	t.channelName = t.ticketType.ClosedChannelName(t.username, t.SequenceNumber())
	t.updatedAt = time.Now()
	return nil
}

// Reopen transitions the ticket back to open.
func (t *Ticket) Reopen() error {
	if !t.status.CanTransitionTo(vo.StatusOpen) {
		return fmt.Errorf("cannot reopen ticket with status %s", t.status)
	}
	t.status = vo.StatusOpen
	t.channelName = t.ticketType.OpenChannelName(t.username, t.SequenceNumber())
	t.updatedAt = time.Now()
	return nil
}

// Arm makes the ticket eligible for the inactivity scanner. Used when the
// creation flow completes and by the autoclose on/off toggle.
func (t *Ticket) Arm() {
	t.checkState = vo.CheckUntouched
	t.updatedAt = time.Now()
}

// MarkNudged records that the scanner sent its "are you still there" nudge.
func (t *Ticket) MarkNudged() {
	t.checkState = vo.CheckNudged
	t.updatedAt = time.Now()
}

// Exempt removes the ticket from auto-close entirely.
func (t *Ticket) Exempt() {
	t.checkState = vo.CheckExempt
	t.updatedAt = time.Now()
}
