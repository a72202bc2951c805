package valueobjects

import (
	"fmt"
	"strings"
)

type TicketType string

const (
	TypeHelp   TicketType = "help"
	TypeSubmit TicketType = "submit"
	TypeMisc   TicketType = "misc"
)

var validTicketTypes = map[TicketType]bool{
	TypeHelp:   true,
	TypeSubmit: true,
	TypeMisc:   true,
}

func (t TicketType) String() string {
	return string(t)
}

func (t TicketType) IsValid() bool {
	return validTicketTypes[t]
}

// DefaultLimit is the maximum number of open tickets of this type one user
// may hold at a time.
func (t TicketType) DefaultLimit() int {
	switch t {
	case TypeHelp:
		return 3
	case TypeSubmit:
		return 2
	case TypeMisc:
		return 2
	}
	return 0
}

// CategoryName is the guild category that hosts open channels of this type.
func (t TicketType) CategoryName() string {
	if t == TypeSubmit {
		return "challenge submissions"
	}
	return "support tickets"
}

// OpenChannelName encodes the type, the owner's name, and the per-type
// sequence number into the live channel name. Channel names are lowercase
// on the platform, so the username is lowered to keep the stored name equal
// to the live one.
func (t TicketType) OpenChannelName(username string, seq int) string {
	username = strings.ToLower(username)
	switch t {
	case TypeSubmit:
		return fmt.Sprintf("challenge-%s", username)
	case TypeMisc:
		return fmt.Sprintf("misc-%s-%d", username, seq)
	default:
		return fmt.Sprintf("help-%s-%d", username, seq)
	}
}

// ClosedChannelName is the name a channel takes while its ticket is closed.
func (t TicketType) ClosedChannelName(username string, seq int) string {
	username = strings.ToLower(username)
	switch t {
	case TypeSubmit:
		return fmt.Sprintf("challenge-%s-closed", username)
	case TypeMisc:
		return fmt.Sprintf("misc-%s-closed-%d", username, seq)
	default:
		return fmt.Sprintf("help-closed-%s-%d", username, seq)
	}
}

// WelcomeMessage is the type-specific body of the pinned welcome embed.
// pingMention is the rendered mention of the ticket-ping role.
func (t TicketType) WelcomeMessage(pingMention string) string {
	switch t {
	case TypeSubmit:
		return "Please create a thread for each challenge, and in the following format:\n\n" +
			"**Title**\n**Category:**\n**Difficulty:**\n**Description:**\n**Flag:** ``\n" +
			"**Player Attachments:**\n**Admin Attachments:**\n**Solve idea/Writeup:** ||||"
	case TypeMisc:
		return fmt.Sprintf("Soon a %s member will assist you.\n"+
			"For now, you can start telling us what the issue is so that we can help you faster.\n"+
			"If you want to close this ticket, click on the :lock:", pingMention)
	default:
		return fmt.Sprintf("Soon a %s member will assist you.\n"+
			"If you don't need help anymore, or you want to close this ticket, click on the :lock:", pingMention)
	}
}

func NewTicketType(s string) (TicketType, error) {
	t := TicketType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid ticket type: %s (possible types are help, submit, and misc)", s)
	}
	return t, nil
}
