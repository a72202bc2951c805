package mappers

import (
	"encoding/json"
	"fmt"

	"ticketbot/internal/domain/challenge"
	"ticketbot/internal/infrastructure/persistence/models"
)

// ChallengeMapper handles the conversion between Challenge domain entities
// and persistence models.
type ChallengeMapper interface {
	ToModel(c *challenge.Challenge) (*models.ChallengeModel, error)
	ToDomain(model *models.ChallengeModel) (*challenge.Challenge, error)
}

type ChallengeMapperImpl struct{}

func NewChallengeMapper() ChallengeMapper {
	return &ChallengeMapperImpl{}
}

func (m *ChallengeMapperImpl) ToModel(c *challenge.Challenge) (*models.ChallengeModel, error) {
	helperJSON, err := json.Marshal(c.HelperIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal helper ids (id=%d): %w", c.ID(), err)
	}
	return &models.ChallengeModel{
		ID:        c.ID(),
		Title:     c.Title(),
		Author:    c.Author(),
		Category:  c.Category(),
		Ignore:    c.Ignored(),
		HelperIDs: string(helperJSON),
	}, nil
}

func (m *ChallengeMapperImpl) ToDomain(model *models.ChallengeModel) (*challenge.Challenge, error) {
	var helperIDs []string
	if model.HelperIDs != "" {
		if err := json.Unmarshal([]byte(model.HelperIDs), &helperIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal helper ids (id=%d): %w", model.ID, err)
		}
	}
	return challenge.ReconstructChallenge(
		model.ID, model.Title, model.Author, model.Category, model.Ignore, helperIDs,
	)
}
