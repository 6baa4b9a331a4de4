package app

import (
	"testing"
	"time"

	"github.com/duskline/walkie/internal/core"
	"github.com/duskline/walkie/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(zerolog.Nop())
}

func TestRegisterRejectsEmptyAndReservedNames(t *testing.T) {
	r := newTestRegistry()
	id := core.ConnID("a")
	r.Connect(id, &fakeTransport{}, time.Now())

	assert.ErrorIs(t, r.Register(id, ""), core.ErrEmptyName)
	assert.ErrorIs(t, r.Register(id, domain.AdminOwner), core.ErrReservedName)
}

func TestRegisterEnforcesGlobalNameUniqueness(t *testing.T) {
	r := newTestRegistry()
	a, b := core.ConnID("a"), core.ConnID("b")
	r.Connect(a, &fakeTransport{}, time.Now())
	r.Connect(b, &fakeTransport{}, time.Now())

	require.NoError(t, r.Register(a, "alice"))
	assert.ErrorIs(t, r.Register(b, "alice"), core.ErrNameTaken, "names are unique across the whole server, not per-channel (Q1)")
}

func TestByNameResolvesAfterRegister(t *testing.T) {
	r := newTestRegistry()
	id := core.ConnID("a")
	r.Connect(id, &fakeTransport{}, time.Now())
	require.NoError(t, r.Register(id, "alice"))

	got, s, ok := r.ByName("alice")
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, "alice", s.Name)
}

func TestRemoveClearsNameIndex(t *testing.T) {
	r := newTestRegistry()
	id := core.ConnID("a")
	r.Connect(id, &fakeTransport{}, time.Now())
	require.NoError(t, r.Register(id, "alice"))

	_, ok := r.Remove(id)
	require.True(t, ok)

	_, _, ok = r.ByName("alice")
	assert.False(t, ok, "removing a session frees its name for reuse")
}

func TestStaleUsesLastPingOrConnectTime(t *testing.T) {
	r := newTestRegistry()
	id := core.ConnID("a")
	now := time.Now()
	r.Connect(id, &fakeTransport{}, now)

	assert.Empty(t, r.Stale(now.Add(10*time.Second), 25*time.Second))
	assert.ElementsMatch(t, []core.ConnID{id}, r.Stale(now.Add(26*time.Second), 25*time.Second))
}
