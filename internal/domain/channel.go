package domain

// AdminOwner is the sentinel owner name for channels created through the
// admin surface rather than the signalling protocol (spec.md §9, Sentinel
// owner). Reserved: a user cannot register with this name (see
// core.ErrReservedName).
const AdminOwner = "admin"

// MixerState reflects whether a channel's periodic mixer is running.
type MixerState int

const (
	MixerIdle MixerState = iota
	MixerRunning
)

func (s MixerState) String() string {
	if s == MixerRunning {
		return "running"
	}
	return "idle"
}

// Channel is the persistent identity of a channel: name and owner never
// change after creation (I3). Membership lives alongside it in
// core.Channel, not here — this type is pure metadata.
type Channel struct {
	Name  ChannelName
	Owner string
}

// NewChannel builds channel metadata. Owner is set once and never changes
// (I3).
func NewChannel(name ChannelName, owner string) *Channel {
	return &Channel{Name: name, Owner: owner}
}
