package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChallenge_Validation(t *testing.T) {
	_, err := NewChallenge(0, "title", "author", "web", false)
	assert.Error(t, err)

	_, err = NewChallenge(1, "", "author", "web", false)
	assert.Error(t, err)

	c, err := NewChallenge(1, "baby-web", "alice", "web", false)
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID())
	assert.Empty(t, c.HelperIDs())
}

func TestChallenge_Authors(t *testing.T) {
	tests := []struct {
		author string
		want   []string
	}{
		{"alice", []string{"alice"}},
		{"alice/bob", []string{"alice", "bob"}},
		{"alice / bob /carol", []string{"alice", "bob", "carol"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		c, err := NewChallenge(1, "t", tt.author, "web", false)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Authors(), tt.author)
	}
}

func TestChallenge_AddHelperIsUnion(t *testing.T) {
	c, err := NewChallenge(1, "t", "a", "web", false)
	require.NoError(t, err)

	assert.True(t, c.AddHelper("42"))
	assert.False(t, c.AddHelper("42"), "second add is a no-op")
	assert.True(t, c.AddHelper("43"))

	assert.Equal(t, []string{"42", "43"}, c.HelperIDs())
	assert.True(t, c.HasHelper("42"))
	assert.False(t, c.HasHelper("99"))
}

func TestHelper(t *testing.T) {
	_, err := NewHelper("")
	assert.Error(t, err)

	h, err := NewHelper("42")
	require.NoError(t, err)
	assert.True(t, h.Available(), "helpers start available")

	h.SetAvailable(false)
	assert.False(t, h.Available())
}
