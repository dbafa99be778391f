package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchspy/sketchspy/internal/domain"
)

func newTestLobby(t *testing.T, size int, memberIDs ...string) (LobbyService, map[string]MemberSession) {
	t.Helper()
	lobby := NewLobbyService("test", domain.DefaultSettings(), size, NewSeededSelector(42))
	members := make(map[string]MemberSession, len(memberIDs))
	for _, id := range memberIDs {
		sid, ms, _ := newTestMember(id)
		require.True(t, lobby.AddMember(sid, ms))
		members[id] = ms
	}
	return lobby, members
}

func TestLobbyMembership(t *testing.T) {
	lobby, _ := newTestLobby(t, 3, "a", "b")

	assert.Equal(t, 2, lobby.MemberCount())
	assert.True(t, lobby.Contains("a"))
	assert.False(t, lobby.Contains("z"))
	assert.False(t, lobby.IsFull())
	assert.False(t, lobby.IsEmpty())

	// Duplicate adds never mutate size.
	sidA, msA, _ := newTestMember("a")
	assert.False(t, lobby.AddMember(sidA, msA))
	assert.Equal(t, 2, lobby.MemberCount())

	sidC, msC, _ := newTestMember("c")
	assert.True(t, lobby.AddMember(sidC, msC))
	assert.True(t, lobby.IsFull())

	// Adds on a full lobby always fail and never mutate size.
	sidD, msD, _ := newTestMember("d")
	assert.False(t, lobby.AddMember(sidD, msD))
	assert.Equal(t, 3, lobby.MemberCount())

	assert.True(t, lobby.RemoveMember("b"))
	assert.False(t, lobby.RemoveMember("b"))
	assert.Equal(t, 2, lobby.MemberCount())
}

func TestLobbyJoinOrderAndHost(t *testing.T) {
	lobby, _ := newTestLobby(t, 8, "a", "b", "c")

	members := lobby.Members()
	require.Len(t, members, 3)
	assert.Equal(t, SessionID("a"), members[0].SID)
	assert.Equal(t, SessionID("c"), members[2].SID)

	host, ok := lobby.Host()
	require.True(t, ok)
	assert.Equal(t, SessionID("a"), host.SID)

	lobby.RemoveMember("a")
	host, ok = lobby.Host()
	require.True(t, ok)
	assert.Equal(t, SessionID("b"), host.SID)
}

func TestLobbyNamesFallBackToID(t *testing.T) {
	lobby, members := newTestLobby(t, 8, "a", "b")
	require.NoError(t, members["a"].Player().SetName("Alice"))

	assert.ElementsMatch(t, []string{"Alice", "b"}, lobby.Names())
	assert.True(t, lobby.ContainsName("Alice"))
	assert.False(t, lobby.ContainsName("alice"), "name lookup is case-sensitive")

	snap, ok := lobby.SessionByName("Alice")
	require.True(t, ok)
	assert.Equal(t, SessionID("a"), snap.SID)

	_, ok = lobby.SessionByName("nobody")
	assert.False(t, ok)
}

func TestLobbyPickImposters(t *testing.T) {
	lobby, _ := newTestLobby(t, 8, "a", "b", "c", "d", "e")

	lobby.ResetRoles()
	picked := lobby.PickImposters(2)
	assert.Len(t, picked, 2)
	assert.Len(t, lobby.ImposterNames(), 2)

	// A second pick without a reset can overlap but can never mint more
	// than two further imposters.
	lobby.PickImposters(2)
	n := len(lobby.ImposterNames())
	assert.GreaterOrEqual(t, n, 2)
	assert.LessOrEqual(t, n, 4)

	lobby.ResetRoles()
	assert.Empty(t, lobby.ImposterNames())

	// Count at or above membership size marks everybody exactly once.
	lobby.PickImposters(99)
	assert.Len(t, lobby.ImposterNames(), 5)
}

func TestLobbyRandomOrderIsPermutation(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}
	lobby, _ := newTestLobby(t, 8, ids...)

	baseline := make([]string, 0, len(ids))
	for _, snap := range lobby.Members() {
		baseline = append(baseline, string(snap.SID))
	}

	varied := false
	for trial := 0; trial < 50; trial++ {
		order := lobby.RandomOrder()
		require.Len(t, order, len(ids))

		got := make([]string, 0, len(order))
		for _, snap := range order {
			got = append(got, string(snap.SID))
		}
		sorted := append([]string(nil), got...)
		sort.Strings(sorted)
		expected := append([]string(nil), ids...)
		sort.Strings(expected)
		assert.Equal(t, expected, sorted, "every member appears exactly once")

		for i := range got {
			if got[i] != baseline[i] {
				varied = true
				break
			}
		}
	}
	assert.True(t, varied, "50 orderings should not all equal the join order")
}

func TestLobbyCloseIfEmpty(t *testing.T) {
	lobby, _ := newTestLobby(t, 8, "a")

	assert.False(t, lobby.CloseIfEmpty(), "occupied lobby stays open")
	assert.False(t, lobby.Closed())

	lobby.RemoveMember("a")
	assert.True(t, lobby.CloseIfEmpty())
	assert.True(t, lobby.Closed())

	// A closed lobby admits nobody, even through a stale reference.
	sid, ms, _ := newTestMember("b")
	assert.False(t, lobby.AddMember(sid, ms))
	assert.Equal(t, 0, lobby.MemberCount())
}

func TestLobbyPickRandomDistinct(t *testing.T) {
	lobby, _ := newTestLobby(t, 8, "a", "b", "c")

	picked := lobby.PickRandom(2)
	require.Len(t, picked, 2)
	assert.NotEqual(t, picked[0].SID, picked[1].SID)

	all := lobby.PickRandom(10)
	assert.Len(t, all, 3)
}

func TestLobbyBroadcastAndPublish(t *testing.T) {
	lobby := NewLobbyService("test", domain.DefaultSettings(), 8, NewSeededSelector(1))
	sidA, msA, connA := newTestMember("a")
	sidB, msB, connB := newTestMember("b")
	sidC, msC, connC := newTestMember("c")
	require.True(t, lobby.AddMember(sidA, msA))
	require.True(t, lobby.AddMember(sidB, msB))
	require.True(t, lobby.AddMember(sidC, msC))

	res := lobby.Broadcast(sidA, Frame(`{"type":"drawTo"}`))
	assert.Equal(t, 2, res.SentTo)
	assert.Empty(t, res.Dropped)
	assert.Equal(t, 0, connA.count(), "broadcast excludes the sender")
	assert.Equal(t, 1, connB.count())
	assert.Equal(t, 1, connC.count())

	res = lobby.Publish(Frame(`{"type":"startRound"}`))
	assert.Equal(t, 3, res.SentTo)
	assert.Equal(t, 1, connA.count())

	connC.fail = true
	res = lobby.Publish(Frame(`{"type":"endRound"}`))
	assert.Equal(t, 2, res.SentTo)
	require.Len(t, res.Dropped, 1)
	assert.Same(t, msC, res.Dropped[0])
}
