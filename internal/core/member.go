package core

import "github.com/duskline/walkie/internal/domain"

// member binds one channel Membership to its session name, transport, and
// jitter buffer. It is the core-package analogue of the teacher's
// memberSession: meta (here, the flags) plus a non-owning transport
// handle, never the transport's owner.
type member struct {
	domain.Membership
	name      string
	transport Transport
	queue     jitterBuffer
}

// MemberInfo is a read-only admin/snapshot view (spec.md §4.8, §8).
type MemberInfo struct {
	Name      string
	Muted     bool
	Talking   bool
	QueueSize int
}

func (m *member) info() MemberInfo {
	return MemberInfo{
		Name:      m.name,
		Muted:     m.Muted,
		Talking:   m.Talking,
		QueueSize: m.queue.size(),
	}
}

// eligible reports whether this member counts as a contributing speaker
// for a mix tick: unmuted, currently talking, and past the jitter floor
// (spec.md §4.5 step 1, invariant I6 minus the nonempty-queue-at-pop-time
// nuance, which the mixer itself re-checks on pop).
func (m *member) eligible() bool {
	return !m.Muted && m.Talking && m.queue.ready()
}
