package mappers

import (
	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ToArchive(model *models.TicketModel) *models.ArchiveModel
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ChannelID:   t.ChannelID(),
		ChannelName: t.ChannelName(),
		GuildID:     t.GuildID(),
		UserID:      t.UserID(),
		Username:    t.Username(),
		TicketType:  t.Type().String(),
		Status:      t.Status().String(),
		CheckState:  int(t.CheckState()),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	ticketType, err := vo.NewTicketType(model.TicketType)
	if err != nil {
		return nil, err
	}
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, err
	}
	checkState, err := vo.NewCheckState(model.CheckState)
	if err != nil {
		return nil, err
	}

	return ticket.ReconstructTicket(
		model.ChannelID,
		model.ChannelName,
		model.GuildID,
		model.UserID,
		model.Username,
		ticketType,
		status,
		checkState,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// ToArchive copies a live row into its archive shape. ArchivedAt is filled by
// the store at insert time.
func (m *TicketMapperImpl) ToArchive(model *models.TicketModel) *models.ArchiveModel {
	return &models.ArchiveModel{
		ChannelID:   model.ChannelID,
		ChannelName: model.ChannelName,
		GuildID:     model.GuildID,
		UserID:      model.UserID,
		Username:    model.Username,
		TicketType:  model.TicketType,
		Status:      model.Status,
		CheckState:  model.CheckState,
		CreatedAt:   model.CreatedAt,
	}
}
