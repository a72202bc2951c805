package autoclose

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/application/ticket/usecases"
	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/logger"
)

// The stubs embed the interface so only the methods a test exercises need an
// implementation; an unexpected call panics and fails the test loudly.

type stubTicketRepo struct {
	ticket.TicketRepository
	tickets []*ticket.Ticket
	states  map[string]vo.CheckState
}

func (s *stubTicketRepo) GuildIDs(ctx context.Context) ([]string, error) {
	return []string{"guild-1"}, nil
}

func (s *stubTicketRepo) ListOpenHelpTickets(ctx context.Context, guildID string) ([]*ticket.Ticket, error) {
	return s.tickets, nil
}

func (s *stubTicketRepo) ListExemptTickets(ctx context.Context, guildID string) ([]*ticket.Ticket, error) {
	var exempt []*ticket.Ticket
	for _, t := range s.tickets {
		if t.CheckState().IsExempt() {
			exempt = append(exempt, t)
		}
	}
	return exempt, nil
}

func (s *stubTicketRepo) UpdateCheckState(ctx context.Context, channelID string, state vo.CheckState) error {
	if s.states == nil {
		s.states = make(map[string]vo.CheckState)
	}
	s.states[channelID] = state
	return nil
}

type stubChannels struct {
	platform.ChannelGateway
	lastMessage map[string]*platform.Message
}

func (s *stubChannels) FetchRecentMessage(ctx context.Context, channelID string) (*platform.Message, error) {
	return s.lastMessage[channelID], nil
}

type stubMessages struct {
	platform.MessagingGateway
	nudged []string
}

func (s *stubMessages) SendAs(ctx context.Context, identity platform.Identity, channelID, content string, controls ...platform.Control) error {
	s.nudged = append(s.nudged, channelID)
	return nil
}

type stubRoster struct {
	platform.RosterGateway
	admins map[string]bool
}

func (stubRoster) RandomAdmin(ctx context.Context, guildID string) (platform.Identity, error) {
	return platform.Identity{Name: "admin"}, nil
}

func (s stubRoster) IsAdmin(ctx context.Context, guildID, userID string) (bool, error) {
	return s.admins[userID], nil
}

func (stubRoster) BotUserID() string { return "bot-1" }

type stubCloser struct {
	closed []usecases.CloseTicketCommand
}

func (s *stubCloser) Execute(ctx context.Context, cmd usecases.CloseTicketCommand) (*usecases.CloseTicketResult, error) {
	s.closed = append(s.closed, cmd)
	return &usecases.CloseTicketResult{}, nil
}

func testTicket(t *testing.T, channelID string, state vo.CheckState) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.ReconstructTicket(
		channelID, "help-alice-1", "guild-1", "user-1", "alice",
		vo.TypeHelp, vo.StatusOpen, state,
		time.Now().Add(-100*time.Hour), time.Now(),
	)
	require.NoError(t, err)
	return tk
}

func newTestScanner(repo *stubTicketRepo, channels *stubChannels, messages *stubMessages, closer *stubCloser) *Scanner {
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := NewScanner(repo, channels, messages, stubRoster{}, closer, 48*time.Hour, time.Minute, log)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func at(s *Scanner, age time.Duration) time.Time {
	return s.now().Add(-age)
}

func TestScanner_NudgesStaleUntouchedTicket(t *testing.T) {
	repo := &stubTicketRepo{tickets: []*ticket.Ticket{testTicket(t, "channel-1", vo.CheckUntouched)}}
	channels := &stubChannels{lastMessage: map[string]*platform.Message{}}
	messages := &stubMessages{}
	closer := &stubCloser{}
	s := newTestScanner(repo, channels, messages, closer)
	channels.lastMessage["channel-1"] = &platform.Message{CreatedAt: at(s, 49 * time.Hour)}

	acted, err := s.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, acted)
	assert.Equal(t, []string{"channel-1"}, messages.nudged)
	assert.Equal(t, vo.CheckNudged, repo.states["channel-1"])
	assert.Empty(t, closer.closed)
}

func TestScanner_FreshTicketIsLeftAlone(t *testing.T) {
	repo := &stubTicketRepo{tickets: []*ticket.Ticket{testTicket(t, "channel-1", vo.CheckUntouched)}}
	channels := &stubChannels{lastMessage: map[string]*platform.Message{}}
	messages := &stubMessages{}
	s := newTestScanner(repo, channels, messages, &stubCloser{})
	channels.lastMessage["channel-1"] = &platform.Message{CreatedAt: at(s, time.Hour)}

	acted, err := s.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, acted)
	assert.Empty(t, messages.nudged)
	assert.Empty(t, repo.states)
}

func TestScanner_ClosesStaleNudgedTicket(t *testing.T) {
	repo := &stubTicketRepo{tickets: []*ticket.Ticket{testTicket(t, "channel-1", vo.CheckNudged)}}
	channels := &stubChannels{lastMessage: map[string]*platform.Message{}}
	closer := &stubCloser{}
	s := newTestScanner(repo, channels, &stubMessages{}, closer)
	channels.lastMessage["channel-1"] = &platform.Message{CreatedAt: at(s, 50 * time.Hour)}

	acted, err := s.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, acted)
	require.Len(t, closer.closed, 1)
	assert.Equal(t, "channel-1", closer.closed[0].ChannelID)
	assert.True(t, closer.closed[0].Inactive)
	assert.Equal(t, vo.CheckUntouched, repo.states["channel-1"])
}

func TestScanner_AdminReplyAfterNudgeResets(t *testing.T) {
	repo := &stubTicketRepo{tickets: []*ticket.Ticket{testTicket(t, "channel-1", vo.CheckNudged)}}
	channels := &stubChannels{lastMessage: map[string]*platform.Message{}}
	closer := &stubCloser{}
	s := newTestScanner(repo, channels, &stubMessages{}, closer)
	s.roster = stubRoster{admins: map[string]bool{"user-9": true}}
	channels.lastMessage["channel-1"] = &platform.Message{AuthorID: "user-9", CreatedAt: at(s, 2 * time.Hour)}

	acted, err := s.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, acted)
	assert.Empty(t, closer.closed)
	assert.Equal(t, vo.CheckUntouched, repo.states["channel-1"])
}

func TestScanner_NonAdminReplyKeepsNudgedState(t *testing.T) {
	repo := &stubTicketRepo{tickets: []*ticket.Ticket{testTicket(t, "channel-1", vo.CheckNudged)}}
	channels := &stubChannels{lastMessage: map[string]*platform.Message{}}
	closer := &stubCloser{}
	s := newTestScanner(repo, channels, &stubMessages{}, closer)
	channels.lastMessage["channel-1"] = &platform.Message{AuthorID: "user-1", CreatedAt: at(s, 2 * time.Hour)}

	acted, err := s.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, acted)
	assert.Empty(t, closer.closed)
	assert.Empty(t, repo.states, "the nudged state survives a non-admin reply")
}

func TestScanner_ExemptAndEmptyAreSkipped(t *testing.T) {
	repo := &stubTicketRepo{tickets: []*ticket.Ticket{
		testTicket(t, "channel-1", vo.CheckExempt),
		testTicket(t, "channel-2", vo.CheckUntouched),
	}}
	// channel-2 has no messages at all: no signal, no action.
	channels := &stubChannels{lastMessage: map[string]*platform.Message{}}
	messages := &stubMessages{}
	s := newTestScanner(repo, channels, messages, &stubCloser{})

	acted, err := s.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, acted)
	assert.Empty(t, messages.nudged)
}
