// Package app holds the stateful services that sit between the wire
// adapters and the core relay: the session table, the channel registry,
// the orchestrator that wires signalling operations to both, and the
// liveness watchdog.
package app

import (
	"sync"
	"time"

	"github.com/duskline/walkie/internal/core"
	"github.com/duskline/walkie/internal/domain"
	"github.com/rs/zerolog"
)

// session is the app-level view of one live connection: the domain
// Session plus its transport handle. Grounded on the teacher's
// sessionEntry (internal/app/registry.go), generalised from a
// room-binding to the session's own identity and channel membership.
type session struct {
	*domain.Session
	transport core.Transport
}

// Registry is the session table (spec.md §3 Session, C4). Sessions are
// keyed by a google/uuid correlation ID (core.ConnID) assigned at
// connect time, independent of the user-chosen display name — this is
// the Q1 resolution recorded in SPEC_FULL.md §3.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.ConnID]*session
	names    map[string]core.ConnID

	log zerolog.Logger
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		sessions: make(map[core.ConnID]*session),
		names:    make(map[string]core.ConnID),
		log:      log.With().Str("module", "app.registry").Logger(),
	}
}

// Connect admits a new, as-yet-unregistered session. Called by the ws
// adapter immediately after a successful upgrade, before any signalling
// message has been read.
func (r *Registry) Connect(id core.ConnID, t core.Transport, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &session{Session: domain.NewSession(now), transport: t}
	r.log.Info().Str("conn", string(id)).Msg("connected")
}

// Register sets a connection's display name, enforcing global
// uniqueness (Q1) and the EmptyName rule (spec.md §4.6).
func (r *Registry) Register(id core.ConnID, name string) error {
	if name == "" {
		return core.ErrEmptyName
	}
	if name == domain.AdminOwner {
		return core.ErrReservedName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return core.ErrNotRegistered
	}
	if _, taken := r.names[name]; taken {
		return core.ErrNameTaken
	}
	s.Name = name
	r.names[name] = id
	r.log.Info().Str("conn", string(id)).Str("name", name).Msg("registered")
	return nil
}

// Get looks up a session by connection ID.
func (r *Registry) Get(id core.ConnID) (*domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return s.Session, true
}

// Transport returns the transport handle bound to a connection.
func (r *Registry) Transport(id core.ConnID) (core.Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return s.transport, true
}

// ByName resolves a registered session by its globally unique name —
// unambiguous under the Q1 resolution, which is what makes the admin
// surface's by-name lookups well-defined.
func (r *Registry) ByName(name string) (core.ConnID, *domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	if !ok {
		return "", nil, false
	}
	s := r.sessions[id]
	return id, s.Session, true
}

// AllRegistered lists every connection that has completed `register`,
// for global broadcasts (`channels`, `channel_created`,
// `channel_deleted`).
func (r *Registry) AllRegistered() []core.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.ConnID, 0, len(r.sessions))
	for id, s := range r.sessions {
		if s.Name != "" {
			out = append(out, id)
		}
	}
	return out
}

// SetChannel updates a session's current channel.
func (r *Registry) SetChannel(id core.ConnID, ch domain.ChannelName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.Channel = ch
	}
}

// Touch records a ping, updating last_ping_at (spec.md §4.6 `ping`).
func (r *Registry) Touch(id core.ConnID, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.LastPingAt = now
	return true
}

// Remove deletes a session and its name index entry. Returns the
// removed session, if any, so the caller (orchestrator, on disconnect
// or eviction) can detach it from its channel.
func (r *Registry) Remove(id core.ConnID) (*domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	delete(r.sessions, id)
	if s.Name != "" {
		delete(r.names, s.Name)
	}
	r.log.Info().Str("conn", string(id)).Msg("removed")
	return s.Session, true
}

// SessionInfo is an admin/snapshot view of one session (spec.md §4.8).
type SessionInfo struct {
	Name      string
	Channel   string
	Muted     bool
	Talking   bool
	QueueSize int
}

// Stale lists connection IDs whose session has exceeded the ping
// deadline (spec.md §4.7), for the watchdog sweep.
func (r *Registry) Stale(now time.Time, deadline time.Duration) []core.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []core.ConnID
	for id, s := range r.sessions {
		last := s.LastPingAt
		if s.ConnectedAt.After(last) {
			last = s.ConnectedAt
		}
		if now.Sub(last) > deadline {
			out = append(out, id)
		}
	}
	return out
}
