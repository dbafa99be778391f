package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerNaming(t *testing.T) {
	p := NewPlayer("abc-123")
	assert.Equal(t, "abc-123", p.DisplayName(), "unnamed players fall back to their id")
	assert.False(t, p.Named())

	assert.ErrorIs(t, p.SetName(""), ErrNameEmpty)
	assert.ErrorIs(t, p.SetName(strings.Repeat("x", MaxPlayerNameLen+1)), ErrNameTooLong)
	assert.False(t, p.Named())

	require.NoError(t, p.SetName("Alice"))
	assert.True(t, p.Named())
	assert.Equal(t, "Alice", p.DisplayName())
}

func TestPlayerDefaults(t *testing.T) {
	p := NewPlayer("abc")
	assert.Equal(t, RoleReal, p.Role())
	assert.False(t, p.MayDraw())

	p.SetRole(RoleImposter)
	p.AllowDraw(true)
	assert.Equal(t, RoleImposter, p.Role())
	assert.True(t, p.MayDraw())
}
