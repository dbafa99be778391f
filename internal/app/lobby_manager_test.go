package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchspy/sketchspy/internal/core"
)

func TestLobbyManagerCreate(t *testing.T) {
	m := NewLobbyManager(core.NewSeededSelector(1))

	lobby, err := m.Create("party", testSettings(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, lobby.Capacity())
	assert.Equal(t, 0, lobby.MemberCount(), "creating never auto-joins anyone")

	_, err = m.Create("party", testSettings(), 4)
	assert.ErrorIs(t, err, ErrLobbyExists)

	got, ok := m.Get("party")
	require.True(t, ok)
	assert.Same(t, lobby, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestLobbyManagerRemoveIdempotent(t *testing.T) {
	m := NewLobbyManager(core.NewSeededSelector(1))
	_, err := m.Create("party", testSettings(), 0)
	require.NoError(t, err)

	m.Remove("party")
	m.Remove("party")

	_, ok := m.Get("party")
	assert.False(t, ok)

	// The name is free again after removal.
	_, err = m.Create("party", testSettings(), 0)
	assert.NoError(t, err)
}

func TestLobbyManagerList(t *testing.T) {
	m := NewLobbyManager(core.NewSeededSelector(1))
	_, err := m.Create("one", testSettings(), 4)
	require.NoError(t, err)
	_, err = m.Create("two", testSettings(), 8)
	require.NoError(t, err)

	infos := m.List()
	require.Len(t, infos, 2)
	names := []string{string(infos[0].Name), string(infos[1].Name)}
	assert.ElementsMatch(t, []string{"one", "two"}, names)
}
