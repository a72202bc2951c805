// Package challengeapi talks to the external challenge platform. Both lookups
// degrade to empty results on upstream failure; the sync service treats empty
// as "no action", so an outage never corrupts local state.
package challengeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ticketbot/internal/application/helper"
	"ticketbot/internal/shared/config"
	"ticketbot/internal/shared/logger"
)

const (
	requestTimeout = 10 * time.Second
	// Maximum response body size (1MB); the full catalog fits comfortably.
	maxResponseSize = 1 << 20
)

type challengeEntry struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Released bool   `json:"released"`
}

type solvesResponse struct {
	TeamID       int   `json:"team_id"`
	ChallengeIDs []int `json:"challenge_ids"`
}

// Client implements helper.ChallengeAPI against the platform's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg *config.ChallengeAPIConfig, logger logger.Interface) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

var _ helper.ChallengeAPI = (*Client)(nil)

// ReleasedChallenges fetches the current catalog, filtered to released
// entries. Failures are logged and reported as an empty catalog.
func (c *Client) ReleasedChallenges(ctx context.Context) ([]helper.ChallengeInfo, error) {
	var entries []challengeEntry
	if err := c.get(ctx, "/challenges", &entries); err != nil {
		c.logger.Warnw("challenge catalog fetch failed", "error", err)
		return nil, nil
	}

	infos := make([]helper.ChallengeInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Released {
			continue
		}
		infos = append(infos, helper.ChallengeInfo{
			ID:       e.ID,
			Title:    e.Title,
			Author:   e.Author,
			Category: e.Category,
		})
	}
	c.logger.Infow("fetched challenge catalog", "released", len(infos))
	return infos, nil
}

// SolvedChallengeIDs resolves a member's solves. Solves recorded against the
// member's team are folded in, so team play still earns helper status.
func (c *Client) SolvedChallengeIDs(ctx context.Context, discordID string) ([]int, error) {
	var personal solvesResponse
	if err := c.get(ctx, "/solves/bydiscordid/"+url.PathEscape(discordID), &personal); err != nil {
		c.logger.Warnw("solve lookup failed", "discord_id", discordID, "error", err)
		return nil, nil
	}

	ids := personal.ChallengeIDs
	if personal.TeamID > 0 {
		var team solvesResponse
		path := fmt.Sprintf("/solves/byteamid/%d", personal.TeamID)
		if err := c.get(ctx, path, &team); err != nil {
			c.logger.Warnw("team solve lookup failed",
				"discord_id", discordID, "team_id", personal.TeamID, "error", err)
		} else {
			ids = unionInts(ids, team.ChallengeIDs)
		}
	}
	return ids, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func unionInts(a, b []int) []int {
	seen := make(map[int]bool, len(a))
	out := make([]int, 0, len(a)+len(b))
	for _, n := range a {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range b {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
