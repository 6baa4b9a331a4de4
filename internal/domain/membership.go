package domain

// Membership is the per-channel, per-user flag state. The queue and the
// session back-reference live in core.member, since domain types carry no
// logic and no transport-adjacent fields.
type Membership struct {
	Talking bool
	Muted   bool
}
