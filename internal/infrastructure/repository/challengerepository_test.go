package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbot/internal/domain/challenge"
	"ticketbot/internal/shared/errors"
	"ticketbot/internal/shared/logger"
)

func challengeRepos(t *testing.T) (challenge.ChallengeRepository, challenge.HelperRepository) {
	t.Helper()
	db := testDB(t)
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewChallengeRepository(db, log), NewHelperRepository(db, log)
}

func mustNewChallenge(t *testing.T, id int, title string) *challenge.Challenge {
	t.Helper()
	c, err := challenge.NewChallenge(id, title, "alice/bob", "web", false)
	require.NoError(t, err)
	return c
}

func TestChallengeRepository_ReplaceAllRoundTrip(t *testing.T) {
	repo, _ := challengeRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []*challenge.Challenge{
		mustNewChallenge(t, 1, "web100"),
		mustNewChallenge(t, 2, "pwn200"),
	}))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Empty(t, all[0].HelperIDs(), "a fresh catalog has no helper associations")

	// Replacing again drops rows that vanished upstream.
	require.NoError(t, repo.ReplaceAll(ctx, []*challenge.Challenge{
		mustNewChallenge(t, 2, "pwn200"),
	}))
	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].ID())
}

func TestChallengeRepository_AddHelperIsIdempotent(t *testing.T) {
	repo, _ := challengeRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []*challenge.Challenge{mustNewChallenge(t, 1, "web100")}))

	require.NoError(t, repo.AddHelper(ctx, 1, "42"))
	require.NoError(t, repo.AddHelper(ctx, 1, "42"))
	require.NoError(t, repo.AddHelper(ctx, 1, "43"))

	c, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, []string{"42", "43"}, c.HelperIDs())

	err = repo.AddHelper(ctx, 99, "42")
	assert.True(t, errors.IsChallengeDoesNotExist(err))
}

func TestChallengeRepository_GetByTitleMissing(t *testing.T) {
	repo, _ := challengeRepos(t)

	c, err := repo.GetByTitle(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestHelperRepository_Lifecycle(t *testing.T) {
	_, helpers := challengeRepos(t)
	ctx := context.Background()

	h, err := challenge.NewHelper("42")
	require.NoError(t, err)
	require.NoError(t, helpers.Add(ctx, h))

	got, err := helpers.Get(ctx, "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Available())

	require.NoError(t, helpers.SetAvailable(ctx, "42", false))
	got, err = helpers.Get(ctx, "42")
	require.NoError(t, err)
	assert.False(t, got.Available())

	list, err := helpers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, helpers.Remove(ctx, "42"))
	assert.Error(t, helpers.Remove(ctx, "42"))

	got, err = helpers.Get(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, got)
}
