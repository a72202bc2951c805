package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"ticketbot/internal/domain/ticket"
	vo "ticketbot/internal/domain/ticket/value_objects"
	"ticketbot/internal/infrastructure/persistence/mappers"
	"ticketbot/internal/infrastructure/persistence/models"
	"ticketbot/internal/shared/errors"
	"ticketbot/internal/shared/logger"
)

// TicketRepositoryImpl implements the ticket.TicketRepository interface
type TicketRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

// NewTicketRepository creates a new ticket repository instance
func NewTicketRepository(db *gorm.DB, logger logger.Interface) ticket.TicketRepository {
	return &TicketRepositoryImpl{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return errors.NewDuplicateTicketError(t.ChannelID())
		}
		r.logger.Errorw("failed to create ticket",
			"channel_id", t.ChannelID(), "error", err)
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	r.logger.Infow("ticket row created",
		"channel_id", model.ChannelID, "channel", model.ChannelName, "type", model.TicketType)
	return nil
}

func (r *TicketRepositoryImpl) GetByChannelID(ctx context.Context, channelID string) (*ticket.Ticket, error) {
	var model models.TicketModel
	err := r.db.WithContext(ctx).First(&model, "channel_id = ?", channelID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.NewUnknownTicketError(channelID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *TicketRepositoryImpl) GetStatus(ctx context.Context, channelID string) (vo.TicketStatus, error) {
	value, err := r.column(ctx, channelID, "status")
	if err != nil {
		return "", err
	}
	return vo.NewTicketStatus(value)
}

func (r *TicketRepositoryImpl) GetTicketType(ctx context.Context, channelID string) (vo.TicketType, error) {
	value, err := r.column(ctx, channelID, "ticket_type")
	if err != nil {
		return "", err
	}
	return vo.NewTicketType(value)
}

func (r *TicketRepositoryImpl) GetOwner(ctx context.Context, channelID string) (string, error) {
	return r.column(ctx, channelID, "user_id")
}

func (r *TicketRepositoryImpl) GetChannelName(ctx context.Context, channelID string) (string, error) {
	return r.column(ctx, channelID, "channel_name")
}

// column fetches one string column from the ticket's row, translating the
// missing-row case into UnknownTicketError.
func (r *TicketRepositoryImpl) column(ctx context.Context, channelID, name string) (string, error) {
	var value string
	err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Select(name).
		Where("channel_id = ?", channelID).
		First(&value).Error
	if err == gorm.ErrRecordNotFound {
		return "", errors.NewUnknownTicketError(channelID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load ticket %s: %w", name, err)
	}
	return value, nil
}

func (r *TicketRepositoryImpl) UpdateStatus(ctx context.Context, channelID string, status vo.TicketStatus) error {
	return r.update(ctx, channelID, map[string]interface{}{"status": status.String()})
}

func (r *TicketRepositoryImpl) UpdateCheckState(ctx context.Context, channelID string, state vo.CheckState) error {
	return r.update(ctx, channelID, map[string]interface{}{"check_state": int(state)})
}

func (r *TicketRepositoryImpl) Rename(ctx context.Context, channelID, newName string) error {
	return r.update(ctx, channelID, map[string]interface{}{"channel_name": newName})
}

func (r *TicketRepositoryImpl) update(ctx context.Context, channelID string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("channel_id = ?", channelID).
		Updates(fields)
	if result.Error != nil {
		r.logger.Errorw("failed to update ticket", "channel_id", channelID, "error", result.Error)
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewUnknownTicketError(channelID)
	}
	return nil
}

func (r *TicketRepositoryImpl) CountOpenByUserAndType(ctx context.Context, userID string, ticketType vo.TicketType) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("user_id = ? AND ticket_type = ? AND status = ?", userID, ticketType.String(), vo.StatusOpen.String()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count open tickets: %w", err)
	}
	return int(count), nil
}

// NextSequence counts live and archived tickets of the type so sequence
// numbers are never reused after a delete.
func (r *TicketRepositoryImpl) NextSequence(ctx context.Context, ticketType vo.TicketType) (int, error) {
	var live, archived int64
	if err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Where("ticket_type = ?", ticketType.String()).
		Count(&live).Error; err != nil {
		return 0, fmt.Errorf("failed to count live tickets: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ArchiveModel{}).
		Where("ticket_type = ?", ticketType.String()).
		Count(&archived).Error; err != nil {
		return 0, fmt.Errorf("failed to count archived tickets: %w", err)
	}
	return int(live+archived) + 1, nil
}

// ArchiveAndDelete moves the row to the archive table in one transaction, so
// the channel id ends up in exactly one of the two tables.
func (r *TicketRepositoryImpl) ArchiveAndDelete(ctx context.Context, channelID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.TicketModel
		if err := tx.First(&model, "channel_id = ?", channelID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewUnknownTicketError(channelID)
			}
			return fmt.Errorf("failed to load ticket: %w", err)
		}
		if err := tx.Create(r.mapper.ToArchive(&model)).Error; err != nil {
			return fmt.Errorf("failed to write archive row: %w", err)
		}
		if err := tx.Delete(&models.TicketModel{}, "channel_id = ?", channelID).Error; err != nil {
			return fmt.Errorf("failed to delete live row: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.Infow("ticket archived", "channel_id", channelID)
	return nil
}

// ListOpenHelpTickets returns the open tickets living in the support
// category: both help and misc share it, so the inactivity sweep covers both.
func (r *TicketRepositoryImpl) ListOpenHelpTickets(ctx context.Context, guildID string) ([]*ticket.Ticket, error) {
	var rows []models.TicketModel
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND status = ? AND ticket_type IN ?",
			guildID, vo.StatusOpen.String(), []string{vo.TypeHelp.String(), vo.TypeMisc.String()}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open tickets: %w", err)
	}
	return r.toDomainList(rows)
}

func (r *TicketRepositoryImpl) ListExemptTickets(ctx context.Context, guildID string) ([]*ticket.Ticket, error) {
	var rows []models.TicketModel
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND check_state = ?", guildID, int(vo.CheckExempt)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list exempt tickets: %w", err)
	}
	return r.toDomainList(rows)
}

func (r *TicketRepositoryImpl) FindOpenSubmitTicket(ctx context.Context, userID string) (string, error) {
	var channelID string
	err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Select("channel_id").
		Where("user_id = ? AND ticket_type = ? AND status = ?",
			userID, vo.TypeSubmit.String(), vo.StatusOpen.String()).
		First(&channelID).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find submit ticket: %w", err)
	}
	return channelID, nil
}

func (r *TicketRepositoryImpl) GuildIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.TicketModel{}).
		Distinct("guild_id").
		Pluck("guild_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	return ids, nil
}

func (r *TicketRepositoryImpl) toDomainList(rows []models.TicketModel) ([]*ticket.Ticket, error) {
	tickets := make([]*ticket.Ticket, 0, len(rows))
	for i := range rows {
		t, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			r.logger.Errorw("skipping corrupt ticket row",
				"channel_id", rows[i].ChannelID, "error", err)
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func isDuplicateKey(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
