package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ticketbot/internal/domain/challenge"
	"ticketbot/internal/infrastructure/persistence/mappers"
	"ticketbot/internal/infrastructure/persistence/models"
	"ticketbot/internal/shared/errors"
	"ticketbot/internal/shared/logger"
)

// ChallengeRepositoryImpl implements the challenge.ChallengeRepository interface
type ChallengeRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ChallengeMapper
	logger logger.Interface
}

// NewChallengeRepository creates a new challenge repository instance
func NewChallengeRepository(db *gorm.DB, logger logger.Interface) challenge.ChallengeRepository {
	return &ChallengeRepositoryImpl{
		db:     db,
		mapper: mappers.NewChallengeMapper(),
		logger: logger,
	}
}

// ReplaceAll wipes and rebuilds the catalog in one transaction. Helper
// associations are dropped with the old rows; the caller re-derives them.
func (r *ChallengeRepositoryImpl) ReplaceAll(ctx context.Context, challenges []*challenge.Challenge) error {
	rows := make([]*models.ChallengeModel, 0, len(challenges))
	for _, c := range challenges {
		model, err := r.mapper.ToModel(c)
		if err != nil {
			return err
		}
		rows = append(rows, model)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ChallengeModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear challenge catalog: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(rows).Error; err != nil {
			return fmt.Errorf("failed to insert challenge catalog: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Infow("challenge catalog replaced", "count", len(rows))
	return nil
}

func (r *ChallengeRepositoryImpl) GetAll(ctx context.Context) ([]*challenge.Challenge, error) {
	var rows []models.ChallengeModel
	if err := r.db.WithContext(ctx).Order("category, title").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	challenges := make([]*challenge.Challenge, 0, len(rows))
	for i := range rows {
		c, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			r.logger.Errorw("skipping corrupt challenge row", "id", rows[i].ID, "error", err)
			continue
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}

func (r *ChallengeRepositoryImpl) GetByID(ctx context.Context, id int) (*challenge.Challenge, error) {
	var model models.ChallengeModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *ChallengeRepositoryImpl) GetByTitle(ctx context.Context, title string) (*challenge.Challenge, error) {
	var model models.ChallengeModel
	err := r.db.WithContext(ctx).First(&model, "title = ?", title).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

// AddHelper unions one solver into the challenge's helper set. The
// read-modify-write runs in a transaction; adding a present id is a no-op.
func (r *ChallengeRepositoryImpl) AddHelper(ctx context.Context, challengeID int, discordID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.ChallengeModel
		if err := tx.First(&model, "id = ?", challengeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewChallengeDoesNotExistError("", challengeID)
			}
			return fmt.Errorf("failed to load challenge: %w", err)
		}

		c, err := r.mapper.ToDomain(&model)
		if err != nil {
			return err
		}
		if !c.AddHelper(discordID) {
			return nil
		}
		updated, err := r.mapper.ToModel(c)
		if err != nil {
			return err
		}
		return tx.Model(&models.ChallengeModel{}).
			Where("id = ?", challengeID).
			Update("helper_ids", updated.HelperIDs).Error
	})
}
