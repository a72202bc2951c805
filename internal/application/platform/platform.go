// Package platform defines the narrow contracts the ticket core needs from
// the chat platform: channel and permission mutation, messaging (including
// the webhook impersonation relay), member/role lookups, and transcript
// export. The discord infrastructure package implements them; use cases and
// the inactivity scanner depend only on these interfaces.
package platform

import (
	"context"
	"time"
)

type PrincipalKind int

const (
	PrincipalMember PrincipalKind = iota
	PrincipalRole
)

// Principal identifies a permission-overwrite target: a member or a role.
type Principal struct {
	Kind PrincipalKind
	ID   string
}

func Member(id string) Principal {
	return Principal{Kind: PrincipalMember, ID: id}
}

func Role(id string) Principal {
	return Principal{Kind: PrincipalRole, ID: id}
}

// Everyone is the guild-wide default role. On Discord its id equals the
// guild id.
func Everyone(guildID string) Principal {
	return Principal{Kind: PrincipalRole, ID: guildID}
}

// Overwrite grants (or denies) read and send on a channel at creation time.
type Overwrite struct {
	Principal Principal
	Read      bool
	Send      bool
}

// Message is the slice of a platform message the core needs.
type Message struct {
	ID          string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Content     string
	CreatedAt   time.Time
}

// Identity is a display name and avatar used by the impersonation relay.
type Identity struct {
	Name      string
	AvatarURL string
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
}

type EmbedField struct {
	Name  string
	Value string
}

// Control is a persistent button attached to a message. Custom ids are
// process-wide constants registered once at startup and dispatched through
// an explicit handler map.
type Control string

const (
	ControlClose  Control = "ticket:close"
	ControlReopen Control = "ticket:reopen"
	ControlDelete Control = "ticket:delete"
)

type SelectOption struct {
	Label string
	Value string
}

type Attachment struct {
	Name string
	Data []byte
}

// ChannelGateway mutates guild channels and permission overwrites. Every
// method may fail with a not-found error if the target vanished
// mid-operation; DeleteChannel treats not-found as success, everything else
// surfaces it.
type ChannelGateway interface {
	// EnsureCategory finds the named category, creating it when missing, and
	// returns its id.
	EnsureCategory(ctx context.Context, guildID, name string) (string, error)
	CategoryChannelCount(ctx context.Context, guildID, categoryID string) (int, error)
	CreateTextChannel(ctx context.Context, guildID, categoryID, name string, overwrites []Overwrite) (string, error)
	MoveChannel(ctx context.Context, channelID, categoryID string) error
	RenameChannel(ctx context.Context, channelID, name string) error
	SetPermission(ctx context.Context, channelID string, p Principal, read, send bool) error
	// ClearPermission removes the explicit overwrite so the principal
	// inherits from the category defaults.
	ClearPermission(ctx context.Context, channelID string, p Principal) error
	HasMemberOverwrite(ctx context.Context, channelID, userID string) (bool, error)
	DeleteChannel(ctx context.Context, channelID string) error
	// FetchRecentMessage returns the newest message, or nil when the channel
	// has none.
	FetchRecentMessage(ctx context.Context, channelID string) (*Message, error)
	History(ctx context.Context, channelID string, limit int) ([]Message, error)
	Topic(ctx context.Context, channelID string) (string, error)
	SetTopic(ctx context.Context, channelID, topic string) error
	// FindTextChannel returns the id of the named channel inside the named
	// category, or "" when either is missing.
	FindTextChannel(ctx context.Context, guildID, categoryName, name string) (string, error)
}

// MessagingGateway sends messages, DMs, and interactive prompts.
type MessagingGateway interface {
	Send(ctx context.Context, channelID, content string, embed *Embed, controls ...Control) (string, error)
	SendFile(ctx context.Context, channelID, content string, attachment *Attachment) (string, error)
	// SendAs relays content through a webhook that impersonates identity.
	SendAs(ctx context.Context, identity Identity, channelID, content string, controls ...Control) error
	// DirectMessage failures are the caller's to tolerate: a user with DMs
	// disabled is not an error condition for the ticket flow.
	DirectMessage(ctx context.Context, userID, content string, embed *Embed, attachment *Attachment) error
	Pin(ctx context.Context, channelID, messageID string) error
	// PurgeScaffold deletes the last limit non-pinned messages, used to drop
	// the ephemeral "creating..." scaffold.
	PurgeScaffold(ctx context.Context, channelID string, limit int) error
	// PromptSelect posts a single-choice select menu and blocks until userID
	// picks exactly one option or ctx expires. Empty submissions re-prompt.
	PromptSelect(ctx context.Context, channelID, userID, placeholder string, options []SelectOption) (string, error)
	// AwaitUserMessage blocks until userID sends a message in the channel or
	// ctx expires.
	AwaitUserMessage(ctx context.Context, channelID, userID string) error
}

// RosterGateway answers member and role questions.
type RosterGateway interface {
	IsAdmin(ctx context.Context, guildID, userID string) (bool, error)
	RandomAdmin(ctx context.Context, guildID string) (Identity, error)
	MemberName(ctx context.Context, guildID, userID string) (string, error)
	// MemberIDByName returns "" when no member carries the name.
	MemberIDByName(ctx context.Context, guildID, name string) (string, error)
	RoleID(ctx context.Context, guildID, roleName string) (string, error)
	RoleMention(ctx context.Context, guildID, roleName string) (string, error)
	BotUserID() string
}

// TranscriptGateway renders a channel's history into an opaque archive blob.
type TranscriptGateway interface {
	Export(ctx context.Context, channelID string) ([]byte, error)
}
