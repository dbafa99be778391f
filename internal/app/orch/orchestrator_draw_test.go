package orch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchspy/sketchspy/internal/app"
	"github.com/sketchspy/sketchspy/internal/core"
)

func TestOnDrawRelaysToLobby(t *testing.T) {
	env := newGameEnv(t)
	require.NoError(t, env.o.CreateLobby("party", quickSettings(), 0))
	env.joinNamed("party", "s1", "A")
	c2 := env.joinNamed("party", "s2", "B")

	sess, _ := env.reg.GetSession("s1")
	sess.Player().AllowDraw(true)

	env.o.OnDraw("s1", app.EventDrawTo, json.RawMessage(`{"x":1,"y":2}`))

	frames := c2.ofType("drawTo")
	require.Len(t, frames, 1)
	assert.Equal(t, "A", frames[0]["from"])
	assert.Equal(t, map[string]any{"x": float64(1), "y": float64(2)}, frames[0]["data"])
}

func TestOnDrawDroppedWithoutPermission(t *testing.T) {
	env := newGameEnv(t)
	require.NoError(t, env.o.CreateLobby("party", quickSettings(), 0))
	env.joinNamed("party", "s1", "A")
	c2 := env.joinNamed("party", "s2", "B")

	sess, _ := env.reg.GetSession("s1")
	sess.Player().AllowDraw(false)

	env.o.OnDraw("s1", app.EventBeginDrawing, nil)
	assert.False(t, c2.hasType("beginDrawing"))
}

func TestOnDrawKicksBackpressuredMember(t *testing.T) {
	env := newGameEnv(t)
	require.NoError(t, env.o.CreateLobby("party", quickSettings(), 0))
	env.joinNamed("party", "s1", "A")
	c2 := env.joinNamed("party", "s2", "B")
	c3 := env.joinNamed("party", "s3", "C")
	c3.fail = true

	sess, _ := env.reg.GetSession("s1")
	sess.Player().AllowDraw(true)

	env.o.OnDraw("s1", app.EventDrawTo, json.RawMessage(`{"x":1}`))

	lobby, ok := env.lobbies.Get("party")
	require.True(t, ok)
	assert.False(t, lobby.Contains(core.SessionID("s3")), "member that cannot keep up is evicted")
	assert.Equal(t, 2, lobby.MemberCount())
	assert.True(t, c2.hasType("drawTo"), "healthy members still got the stroke")
}
