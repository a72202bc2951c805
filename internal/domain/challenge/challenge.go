// Package challenge models the scraped challenge catalog and the helper
// roster. Challenges are bulk-replaced from the external API; helper
// associations are re-derived after every refresh.
package challenge

import (
	"fmt"
	"strings"
)

// Challenge is one released challenge from the external system. The id is
// the external system's identifier and must be stable across refreshes for
// helper associations to carry meaning.
type Challenge struct {
	id        int
	title     string
	author    string
	category  string
	ignore    bool
	helperIDs []string
}

func NewChallenge(id int, title, author, category string, ignore bool) (*Challenge, error) {
	if id <= 0 {
		return nil, fmt.Errorf("challenge id must be positive")
	}
	if title == "" {
		return nil, fmt.Errorf("challenge title is required")
	}
	return &Challenge{
		id:       id,
		title:    title,
		author:   author,
		category: category,
		ignore:   ignore,
	}, nil
}

func ReconstructChallenge(id int, title, author, category string, ignore bool, helperIDs []string) (*Challenge, error) {
	c, err := NewChallenge(id, title, author, category, ignore)
	if err != nil {
		return nil, err
	}
	c.helperIDs = helperIDs
	return c, nil
}

func (c *Challenge) ID() int {
	return c.id
}

func (c *Challenge) Title() string {
	return c.title
}

func (c *Challenge) Author() string {
	return c.author
}

// Authors splits slash-delimited co-author lists into individual names.
func (c *Challenge) Authors() []string {
	parts := strings.Split(c.author, "/")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

func (c *Challenge) Category() string {
	return c.category
}

// Ignored challenges are internally authored and excluded from ticket routing.
func (c *Challenge) Ignored() bool {
	return c.ignore
}

func (c *Challenge) HelperIDs() []string {
	ids := make([]string, len(c.helperIDs))
	copy(ids, c.helperIDs)
	return ids
}

// AddHelper unions a solver into the helper set. Returns false when the id
// was already present.
func (c *Challenge) AddHelper(discordID string) bool {
	for _, id := range c.helperIDs {
		if id == discordID {
			return false
		}
	}
	c.helperIDs = append(c.helperIDs, discordID)
	return true
}

func (c *Challenge) HasHelper(discordID string) bool {
	for _, id := range c.helperIDs {
		if id == discordID {
			return true
		}
	}
	return false
}
