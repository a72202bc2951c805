package usecases

import (
	"context"
	"io"
	"log/slog"

	"ticketbot/internal/application/platform"
	"ticketbot/internal/domain/challenge"
	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockTicketRepository struct {
	createFunc               func(ctx context.Context, t *ticket.Ticket) error
	getByChannelIDFunc       func(ctx context.Context, channelID string) (*ticket.Ticket, error)
	getStatusFunc            func(ctx context.Context, channelID string) (vo.TicketStatus, error)
	getTicketTypeFunc        func(ctx context.Context, channelID string) (vo.TicketType, error)
	getOwnerFunc             func(ctx context.Context, channelID string) (string, error)
	getChannelNameFunc       func(ctx context.Context, channelID string) (string, error)
	updateStatusFunc         func(ctx context.Context, channelID string, status vo.TicketStatus) error
	updateCheckStateFunc     func(ctx context.Context, channelID string, state vo.CheckState) error
	renameFunc               func(ctx context.Context, channelID, newName string) error
	countOpenFunc            func(ctx context.Context, userID string, ticketType vo.TicketType) (int, error)
	nextSequenceFunc         func(ctx context.Context, ticketType vo.TicketType) (int, error)
	archiveAndDeleteFunc     func(ctx context.Context, channelID string) error
	listOpenHelpTicketsFunc  func(ctx context.Context, guildID string) ([]*ticket.Ticket, error)
	listExemptTicketsFunc    func(ctx context.Context, guildID string) ([]*ticket.Ticket, error)
	findOpenSubmitTicketFunc func(ctx context.Context, userID string) (string, error)
	guildIDsFunc             func(ctx context.Context) ([]string, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) GetByChannelID(ctx context.Context, channelID string) (*ticket.Ticket, error) {
	if m.getByChannelIDFunc != nil {
		return m.getByChannelIDFunc(ctx, channelID)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetStatus(ctx context.Context, channelID string) (vo.TicketStatus, error) {
	if m.getStatusFunc != nil {
		return m.getStatusFunc(ctx, channelID)
	}
	return vo.StatusOpen, nil
}

func (m *mockTicketRepository) GetTicketType(ctx context.Context, channelID string) (vo.TicketType, error) {
	if m.getTicketTypeFunc != nil {
		return m.getTicketTypeFunc(ctx, channelID)
	}
	return vo.TypeHelp, nil
}

func (m *mockTicketRepository) GetOwner(ctx context.Context, channelID string) (string, error) {
	if m.getOwnerFunc != nil {
		return m.getOwnerFunc(ctx, channelID)
	}
	return "", nil
}

func (m *mockTicketRepository) GetChannelName(ctx context.Context, channelID string) (string, error) {
	if m.getChannelNameFunc != nil {
		return m.getChannelNameFunc(ctx, channelID)
	}
	return "", nil
}

func (m *mockTicketRepository) UpdateStatus(ctx context.Context, channelID string, status vo.TicketStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, channelID, status)
	}
	return nil
}

func (m *mockTicketRepository) UpdateCheckState(ctx context.Context, channelID string, state vo.CheckState) error {
	if m.updateCheckStateFunc != nil {
		return m.updateCheckStateFunc(ctx, channelID, state)
	}
	return nil
}

func (m *mockTicketRepository) Rename(ctx context.Context, channelID, newName string) error {
	if m.renameFunc != nil {
		return m.renameFunc(ctx, channelID, newName)
	}
	return nil
}

func (m *mockTicketRepository) CountOpenByUserAndType(ctx context.Context, userID string, ticketType vo.TicketType) (int, error) {
	if m.countOpenFunc != nil {
		return m.countOpenFunc(ctx, userID, ticketType)
	}
	return 0, nil
}

func (m *mockTicketRepository) NextSequence(ctx context.Context, ticketType vo.TicketType) (int, error) {
	if m.nextSequenceFunc != nil {
		return m.nextSequenceFunc(ctx, ticketType)
	}
	return 1, nil
}

func (m *mockTicketRepository) ArchiveAndDelete(ctx context.Context, channelID string) error {
	if m.archiveAndDeleteFunc != nil {
		return m.archiveAndDeleteFunc(ctx, channelID)
	}
	return nil
}

func (m *mockTicketRepository) ListOpenHelpTickets(ctx context.Context, guildID string) ([]*ticket.Ticket, error) {
	if m.listOpenHelpTicketsFunc != nil {
		return m.listOpenHelpTicketsFunc(ctx, guildID)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListExemptTickets(ctx context.Context, guildID string) ([]*ticket.Ticket, error) {
	if m.listExemptTicketsFunc != nil {
		return m.listExemptTicketsFunc(ctx, guildID)
	}
	return nil, nil
}

func (m *mockTicketRepository) FindOpenSubmitTicket(ctx context.Context, userID string) (string, error) {
	if m.findOpenSubmitTicketFunc != nil {
		return m.findOpenSubmitTicketFunc(ctx, userID)
	}
	return "", nil
}

func (m *mockTicketRepository) GuildIDs(ctx context.Context) ([]string, error) {
	if m.guildIDsFunc != nil {
		return m.guildIDsFunc(ctx)
	}
	return nil, nil
}

type mockChallengeRepository struct {
	replaceAllFunc func(ctx context.Context, challenges []*challenge.Challenge) error
	getAllFunc     func(ctx context.Context) ([]*challenge.Challenge, error)
	getByIDFunc    func(ctx context.Context, id int) (*challenge.Challenge, error)
	getByTitleFunc func(ctx context.Context, title string) (*challenge.Challenge, error)
	addHelperFunc  func(ctx context.Context, challengeID int, helperID string) error
}

func (m *mockChallengeRepository) ReplaceAll(ctx context.Context, challenges []*challenge.Challenge) error {
	if m.replaceAllFunc != nil {
		return m.replaceAllFunc(ctx, challenges)
	}
	return nil
}

func (m *mockChallengeRepository) GetAll(ctx context.Context) ([]*challenge.Challenge, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockChallengeRepository) GetByID(ctx context.Context, id int) (*challenge.Challenge, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockChallengeRepository) GetByTitle(ctx context.Context, title string) (*challenge.Challenge, error) {
	if m.getByTitleFunc != nil {
		return m.getByTitleFunc(ctx, title)
	}
	return nil, nil
}

func (m *mockChallengeRepository) AddHelper(ctx context.Context, challengeID int, helperID string) error {
	if m.addHelperFunc != nil {
		return m.addHelperFunc(ctx, challengeID, helperID)
	}
	return nil
}

type mockChannelGateway struct {
	ensureCategoryFunc       func(ctx context.Context, guildID, name string) (string, error)
	categoryChannelCountFunc func(ctx context.Context, guildID, categoryID string) (int, error)
	createTextChannelFunc    func(ctx context.Context, guildID, categoryID, name string, overwrites []platform.Overwrite) (string, error)
	moveChannelFunc          func(ctx context.Context, channelID, categoryID string) error
	renameChannelFunc        func(ctx context.Context, channelID, name string) error
	setPermissionFunc        func(ctx context.Context, channelID string, p platform.Principal, read, send bool) error
	clearPermissionFunc      func(ctx context.Context, channelID string, p platform.Principal) error
	hasMemberOverwriteFunc   func(ctx context.Context, channelID, userID string) (bool, error)
	deleteChannelFunc        func(ctx context.Context, channelID string) error
	fetchRecentMessageFunc   func(ctx context.Context, channelID string) (*platform.Message, error)
	historyFunc              func(ctx context.Context, channelID string, limit int) ([]platform.Message, error)
	topicFunc                func(ctx context.Context, channelID string) (string, error)
	setTopicFunc             func(ctx context.Context, channelID, topic string) error
	findTextChannelFunc      func(ctx context.Context, guildID, categoryName, name string) (string, error)
}

func (m *mockChannelGateway) EnsureCategory(ctx context.Context, guildID, name string) (string, error) {
	if m.ensureCategoryFunc != nil {
		return m.ensureCategoryFunc(ctx, guildID, name)
	}
	return "category-1", nil
}

func (m *mockChannelGateway) CategoryChannelCount(ctx context.Context, guildID, categoryID string) (int, error) {
	if m.categoryChannelCountFunc != nil {
		return m.categoryChannelCountFunc(ctx, guildID, categoryID)
	}
	return 0, nil
}

func (m *mockChannelGateway) CreateTextChannel(ctx context.Context, guildID, categoryID, name string, overwrites []platform.Overwrite) (string, error) {
	if m.createTextChannelFunc != nil {
		return m.createTextChannelFunc(ctx, guildID, categoryID, name, overwrites)
	}
	return "channel-1", nil
}

func (m *mockChannelGateway) MoveChannel(ctx context.Context, channelID, categoryID string) error {
	if m.moveChannelFunc != nil {
		return m.moveChannelFunc(ctx, channelID, categoryID)
	}
	return nil
}

func (m *mockChannelGateway) RenameChannel(ctx context.Context, channelID, name string) error {
	if m.renameChannelFunc != nil {
		return m.renameChannelFunc(ctx, channelID, name)
	}
	return nil
}

func (m *mockChannelGateway) SetPermission(ctx context.Context, channelID string, p platform.Principal, read, send bool) error {
	if m.setPermissionFunc != nil {
		return m.setPermissionFunc(ctx, channelID, p, read, send)
	}
	return nil
}

func (m *mockChannelGateway) ClearPermission(ctx context.Context, channelID string, p platform.Principal) error {
	if m.clearPermissionFunc != nil {
		return m.clearPermissionFunc(ctx, channelID, p)
	}
	return nil
}

func (m *mockChannelGateway) HasMemberOverwrite(ctx context.Context, channelID, userID string) (bool, error) {
	if m.hasMemberOverwriteFunc != nil {
		return m.hasMemberOverwriteFunc(ctx, channelID, userID)
	}
	return false, nil
}

func (m *mockChannelGateway) DeleteChannel(ctx context.Context, channelID string) error {
	if m.deleteChannelFunc != nil {
		return m.deleteChannelFunc(ctx, channelID)
	}
	return nil
}

func (m *mockChannelGateway) FetchRecentMessage(ctx context.Context, channelID string) (*platform.Message, error) {
	if m.fetchRecentMessageFunc != nil {
		return m.fetchRecentMessageFunc(ctx, channelID)
	}
	return nil, nil
}

func (m *mockChannelGateway) History(ctx context.Context, channelID string, limit int) ([]platform.Message, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, channelID, limit)
	}
	return nil, nil
}

func (m *mockChannelGateway) Topic(ctx context.Context, channelID string) (string, error) {
	if m.topicFunc != nil {
		return m.topicFunc(ctx, channelID)
	}
	return "", nil
}

func (m *mockChannelGateway) SetTopic(ctx context.Context, channelID, topic string) error {
	if m.setTopicFunc != nil {
		return m.setTopicFunc(ctx, channelID, topic)
	}
	return nil
}

func (m *mockChannelGateway) FindTextChannel(ctx context.Context, guildID, categoryName, name string) (string, error) {
	if m.findTextChannelFunc != nil {
		return m.findTextChannelFunc(ctx, guildID, categoryName, name)
	}
	return "log-channel-1", nil
}

type mockMessagingGateway struct {
	sendFunc             func(ctx context.Context, channelID, content string, embed *platform.Embed, controls ...platform.Control) (string, error)
	sendFileFunc         func(ctx context.Context, channelID, content string, attachment *platform.Attachment) (string, error)
	sendAsFunc           func(ctx context.Context, identity platform.Identity, channelID, content string, controls ...platform.Control) error
	directMessageFunc    func(ctx context.Context, userID, content string, embed *platform.Embed, attachment *platform.Attachment) error
	pinFunc              func(ctx context.Context, channelID, messageID string) error
	purgeScaffoldFunc    func(ctx context.Context, channelID string, limit int) error
	promptSelectFunc     func(ctx context.Context, channelID, userID, placeholder string, options []platform.SelectOption) (string, error)
	awaitUserMessageFunc func(ctx context.Context, channelID, userID string) error
}

func (m *mockMessagingGateway) Send(ctx context.Context, channelID, content string, embed *platform.Embed, controls ...platform.Control) (string, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, channelID, content, embed, controls...)
	}
	return "message-1", nil
}

func (m *mockMessagingGateway) SendFile(ctx context.Context, channelID, content string, attachment *platform.Attachment) (string, error) {
	if m.sendFileFunc != nil {
		return m.sendFileFunc(ctx, channelID, content, attachment)
	}
	return "message-1", nil
}

func (m *mockMessagingGateway) SendAs(ctx context.Context, identity platform.Identity, channelID, content string, controls ...platform.Control) error {
	if m.sendAsFunc != nil {
		return m.sendAsFunc(ctx, identity, channelID, content, controls...)
	}
	return nil
}

func (m *mockMessagingGateway) DirectMessage(ctx context.Context, userID, content string, embed *platform.Embed, attachment *platform.Attachment) error {
	if m.directMessageFunc != nil {
		return m.directMessageFunc(ctx, userID, content, embed, attachment)
	}
	return nil
}

func (m *mockMessagingGateway) Pin(ctx context.Context, channelID, messageID string) error {
	if m.pinFunc != nil {
		return m.pinFunc(ctx, channelID, messageID)
	}
	return nil
}

func (m *mockMessagingGateway) PurgeScaffold(ctx context.Context, channelID string, limit int) error {
	if m.purgeScaffoldFunc != nil {
		return m.purgeScaffoldFunc(ctx, channelID, limit)
	}
	return nil
}

func (m *mockMessagingGateway) PromptSelect(ctx context.Context, channelID, userID, placeholder string, options []platform.SelectOption) (string, error) {
	if m.promptSelectFunc != nil {
		return m.promptSelectFunc(ctx, channelID, userID, placeholder, options)
	}
	return "", context.DeadlineExceeded
}

func (m *mockMessagingGateway) AwaitUserMessage(ctx context.Context, channelID, userID string) error {
	if m.awaitUserMessageFunc != nil {
		return m.awaitUserMessageFunc(ctx, channelID, userID)
	}
	return nil
}

type mockRosterGateway struct {
	isAdminFunc        func(ctx context.Context, guildID, userID string) (bool, error)
	randomAdminFunc    func(ctx context.Context, guildID string) (platform.Identity, error)
	memberNameFunc     func(ctx context.Context, guildID, userID string) (string, error)
	memberIDByNameFunc func(ctx context.Context, guildID, name string) (string, error)
	roleIDFunc         func(ctx context.Context, guildID, roleName string) (string, error)
	roleMentionFunc    func(ctx context.Context, guildID, roleName string) (string, error)
	botUserIDFunc      func() string
}

func (m *mockRosterGateway) IsAdmin(ctx context.Context, guildID, userID string) (bool, error) {
	if m.isAdminFunc != nil {
		return m.isAdminFunc(ctx, guildID, userID)
	}
	return false, nil
}

func (m *mockRosterGateway) RandomAdmin(ctx context.Context, guildID string) (platform.Identity, error) {
	if m.randomAdminFunc != nil {
		return m.randomAdminFunc(ctx, guildID)
	}
	return platform.Identity{Name: "admin"}, nil
}

func (m *mockRosterGateway) MemberName(ctx context.Context, guildID, userID string) (string, error) {
	if m.memberNameFunc != nil {
		return m.memberNameFunc(ctx, guildID, userID)
	}
	return "member", nil
}

func (m *mockRosterGateway) MemberIDByName(ctx context.Context, guildID, name string) (string, error) {
	if m.memberIDByNameFunc != nil {
		return m.memberIDByNameFunc(ctx, guildID, name)
	}
	return "", nil
}

func (m *mockRosterGateway) RoleID(ctx context.Context, guildID, roleName string) (string, error) {
	if m.roleIDFunc != nil {
		return m.roleIDFunc(ctx, guildID, roleName)
	}
	return "role-1", nil
}

func (m *mockRosterGateway) RoleMention(ctx context.Context, guildID, roleName string) (string, error) {
	if m.roleMentionFunc != nil {
		return m.roleMentionFunc(ctx, guildID, roleName)
	}
	return "<@&role-1>", nil
}

func (m *mockRosterGateway) BotUserID() string {
	if m.botUserIDFunc != nil {
		return m.botUserIDFunc()
	}
	return "bot-1"
}

type mockTranscriptGateway struct {
	exportFunc func(ctx context.Context, channelID string) ([]byte, error)
}

func (m *mockTranscriptGateway) Export(ctx context.Context, channelID string) ([]byte, error) {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, channelID)
	}
	return []byte("<html></html>"), nil
}
