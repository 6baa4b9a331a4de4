package core

import (
	"context"
	"sync"

	"github.com/duskline/walkie/internal/domain"
	"github.com/rs/zerolog"
)

// TickInterval is the mixer cadence (spec.md §4.5).
const TickInterval = 20 // milliseconds; the mixer's ticker uses mixTickInterval in mixer.go.

// Channel is a threadsafe in-memory channel: metadata, membership, and the
// periodic mixer that feeds it. Grounded on the teacher's roomImpl
// (internal/core/room_impl.go), generalised from a WebRTC fan-out room to
// a mix-minus PCM channel.
type Channel struct {
	meta *domain.Channel

	mu      sync.RWMutex
	members map[string]*member
	state   domain.MixerState
	cancel  context.CancelFunc

	log zerolog.Logger
}

// NewChannel constructs a channel with no members; its mixer is idle
// until the first member joins (I5).
func NewChannel(meta *domain.Channel, log zerolog.Logger) *Channel {
	return &Channel{
		meta:    meta,
		members: make(map[string]*member),
		state:   domain.MixerIdle,
		log:     log.With().Str("module", "core.channel").Str("channel", string(meta.Name)).Logger(),
	}
}

func (c *Channel) Meta() *domain.Channel { return c.meta }

func (c *Channel) MemberCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members)
}

func (c *Channel) MixerState() domain.MixerState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Snapshot lists current members with their flags and queue depth for
// the admin view (spec.md §4.8 `snapshot`).
func (c *Channel) Snapshot() []MemberInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]MemberInfo, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, m.info())
	}
	return out
}

// Names lists current member names only, for the `joined{users}` reply.
func (c *Channel) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.members))
	for name := range c.members {
		out = append(out, name)
	}
	return out
}

// AddMember attaches a new membership under name. Fails with
// ErrNameInUseInChannel if the name is already a member of this channel
// (I1). Reports start=true when this is the first member, so the caller
// can start the mixer (I5); AddMember does not start it itself.
func (c *Channel) AddMember(name string, t Transport) (start bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.members[name]; ok {
		return false, ErrNameInUseInChannel
	}
	c.members[name] = &member{name: name, transport: t}
	wasEmpty := c.state == domain.MixerIdle
	c.state = domain.MixerRunning
	c.log.Info().Str("member", name).Msg("member added")
	return wasEmpty, nil
}

// RemoveMember detaches a membership, if present. Reports whether the
// channel is now empty (so the caller can stop the mixer, I5).
func (c *Channel) RemoveMember(name string) (nowEmpty bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.members[name]; !ok {
		return len(c.members) == 0
	}
	delete(c.members, name)
	c.log.Info().Str("member", name).Msg("member removed")
	if len(c.members) == 0 {
		c.state = domain.MixerIdle
		return true
	}
	return false
}

// SetTalking updates a member's push-to-talk flag.
func (c *Channel) SetTalking(name string, talking bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.members[name]
	if !ok {
		return false
	}
	m.Talking = talking
	return true
}

// SetMuted updates a member's mute flag.
func (c *Channel) SetMuted(name string, muted bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.members[name]
	if !ok {
		return false
	}
	m.Muted = muted
	return true
}

// PushFrame gates and enqueues an inbound audio frame for name (spec.md
// §4.6 binary frame rule, §4.2 push). Silently does nothing if the gate
// fails or the member isn't present — callers never need to branch on
// error, matching "dropped silently."
func (c *Channel) PushFrame(name string, f Frame) {
	if !f.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.members[name]
	if !ok || m.Muted || !m.Talking {
		return
	}
	m.queue.push(f)
}

// setCancel records the running mixer's stop function. Guarded by the
// same lock as membership so a stopped/started mixer never races a
// membership change.
func (c *Channel) setCancel(cancel context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel = cancel
}

// StopMixer cancels the running mixer goroutine, if any. Callers invoke
// this when RemoveMember reports the channel just became empty (I5).
func (c *Channel) StopMixer() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
