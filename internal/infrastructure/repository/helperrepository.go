package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ticketbot/internal/domain/challenge"
	"ticketbot/internal/infrastructure/persistence/models"
	"ticketbot/internal/shared/logger"
)

// HelperRepositoryImpl implements the challenge.HelperRepository interface
type HelperRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewHelperRepository creates a new helper repository instance
func NewHelperRepository(db *gorm.DB, logger logger.Interface) challenge.HelperRepository {
	return &HelperRepositoryImpl{db: db, logger: logger}
}

func (r *HelperRepositoryImpl) Add(ctx context.Context, h *challenge.Helper) error {
	model := &models.HelperModel{
		DiscordID:   h.DiscordID(),
		IsAvailable: h.Available(),
	}
	// Re-adding an existing helper refreshes availability instead of failing.
	err := r.db.WithContext(ctx).Save(model).Error
	if err != nil {
		r.logger.Errorw("failed to add helper", "discord_id", h.DiscordID(), "error", err)
		return fmt.Errorf("failed to add helper: %w", err)
	}
	r.logger.Infow("helper added", "discord_id", h.DiscordID())
	return nil
}

func (r *HelperRepositoryImpl) Remove(ctx context.Context, discordID string) error {
	result := r.db.WithContext(ctx).Delete(&models.HelperModel{}, "discord_id = ?", discordID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove helper: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("helper %s is not on the roster", discordID)
	}
	r.logger.Infow("helper removed", "discord_id", discordID)
	return nil
}

func (r *HelperRepositoryImpl) SetAvailable(ctx context.Context, discordID string, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.HelperModel{}).
		Where("discord_id = ?", discordID).
		Update("is_available", available)
	if result.Error != nil {
		return fmt.Errorf("failed to update helper availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("helper %s is not on the roster", discordID)
	}
	return nil
}

func (r *HelperRepositoryImpl) Get(ctx context.Context, discordID string) (*challenge.Helper, error) {
	var model models.HelperModel
	err := r.db.WithContext(ctx).First(&model, "discord_id = ?", discordID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load helper: %w", err)
	}
	return challenge.ReconstructHelper(model.DiscordID, model.IsAvailable)
}

func (r *HelperRepositoryImpl) List(ctx context.Context) ([]*challenge.Helper, error) {
	var rows []models.HelperModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list helpers: %w", err)
	}
	helpers := make([]*challenge.Helper, 0, len(rows))
	for _, row := range rows {
		h, err := challenge.ReconstructHelper(row.DiscordID, row.IsAvailable)
		if err != nil {
			continue
		}
		helpers = append(helpers, h)
	}
	return helpers, nil
}
