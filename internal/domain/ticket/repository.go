package ticket

import (
	"context"

	vo "ticketbot/internal/domain/ticket/value_objects"
)

// TicketRepository persists live tickets (the requests table) and the
// immutable archive. Point getters fail with UnknownTicketError when the
// channel has no row; "not a ticket" is never reported as an empty value.
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByChannelID(ctx context.Context, channelID string) (*Ticket, error)
	GetStatus(ctx context.Context, channelID string) (vo.TicketStatus, error)
	GetTicketType(ctx context.Context, channelID string) (vo.TicketType, error)
	GetOwner(ctx context.Context, channelID string) (string, error)
	GetChannelName(ctx context.Context, channelID string) (string, error)

	UpdateStatus(ctx context.Context, channelID string, status vo.TicketStatus) error
	UpdateCheckState(ctx context.Context, channelID string, state vo.CheckState) error
	Rename(ctx context.Context, channelID, newName string) error

	// CountOpenByUserAndType counts only currently-open tickets; closed and
	// archived tickets do not count against the quota.
	CountOpenByUserAndType(ctx context.Context, userID string, ticketType vo.TicketType) (int, error)

	// NextSequence returns the next per-type sequence number, counting live
	// and archived tickets so numbers are never recycled after deletion.
	NextSequence(ctx context.Context, ticketType vo.TicketType) (int, error)

	// ArchiveAndDelete copies the row to the archive and removes it from the
	// live table in one transaction: afterwards the channel id exists in
	// exactly one of the two tables, never both, never neither.
	ArchiveAndDelete(ctx context.Context, channelID string) error

	ListOpenHelpTickets(ctx context.Context, guildID string) ([]*Ticket, error)
	ListExemptTickets(ctx context.Context, guildID string) ([]*Ticket, error)
	FindOpenSubmitTicket(ctx context.Context, userID string) (string, error)
	GuildIDs(ctx context.Context) ([]string, error)
}
