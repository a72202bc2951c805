package challengeapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketbot/internal/shared/config"
	"ticketbot/internal/shared/logger"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewClient(&config.ChallengeAPIConfig{BaseURL: server.URL, APIKey: "secret"}, log)
}

func TestReleasedChallenges_FiltersUnreleased(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/challenges", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		w.Write([]byte(`[
			{"id":1,"title":"web100","author":"alice","category":"web","released":true},
			{"id":2,"title":"secret","author":"bob","category":"pwn","released":false}
		]`))
	}))

	infos, err := client.ReleasedChallenges(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "web100", infos[0].Title)
}

func TestReleasedChallenges_UpstreamFailureIsEmpty(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	infos, err := client.ReleasedChallenges(context.Background())
	require.NoError(t, err, "upstream failure degrades to an empty catalog")
	assert.Empty(t, infos)
}

func TestSolvedChallengeIDs_TeamExpansion(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/solves/bydiscordid/42":
			w.Write([]byte(`{"team_id":7,"challenge_ids":[1,2]}`))
		case "/solves/byteamid/7":
			w.Write([]byte(`{"challenge_ids":[2,3]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	ids, err := client.SolvedChallengeIDs(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids, "personal and team solves are unioned")
}

func TestSolvedChallengeIDs_NoTeam(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/solves/bydiscordid/42", r.URL.Path)
		w.Write([]byte(`{"team_id":0,"challenge_ids":[5]}`))
	}))

	ids, err := client.SolvedChallengeIDs(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, []int{5}, ids)
}
