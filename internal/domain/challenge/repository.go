package challenge

import "context"

// ChallengeRepository persists the scraped challenge catalog. ReplaceAll is
// a full wipe-and-rebuild inside one transaction; helper associations must be
// re-derived by the caller afterwards.
type ChallengeRepository interface {
	ReplaceAll(ctx context.Context, challenges []*Challenge) error
	GetAll(ctx context.Context) ([]*Challenge, error)
	GetByID(ctx context.Context, id int) (*Challenge, error)
	GetByTitle(ctx context.Context, title string) (*Challenge, error)
	// AddHelper unions one solver into the challenge's helper set. Adding an
	// id that is already present is a no-op, not an error.
	AddHelper(ctx context.Context, challengeID int, discordID string) error
}

type HelperRepository interface {
	Add(ctx context.Context, h *Helper) error
	Remove(ctx context.Context, discordID string) error
	SetAvailable(ctx context.Context, discordID string, available bool) error
	Get(ctx context.Context, discordID string) (*Helper, error)
	List(ctx context.Context) ([]*Helper, error)
}
