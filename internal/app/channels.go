package app

import (
	"context"
	"sync"

	"github.com/duskline/walkie/internal/core"
	"github.com/duskline/walkie/internal/domain"
	"github.com/rs/zerolog"
)

// ChannelRegistry is the in-memory channel table (spec.md §3 Channel,
// C3). Grounded on the teacher's RoomManagerImpl
// (internal/app/room_manager.go), generalised from WebRTC rooms to
// mix-minus channels whose mixer lifecycle it owns.
//
// A channel is never removed merely because it became empty (spec.md
// §3): entries are deleted only by CloseChannel.
type ChannelRegistry struct {
	mu       sync.RWMutex
	channels map[domain.ChannelName]*core.Channel

	ctx context.Context // base context; cancelled at process shutdown
	log zerolog.Logger
}

func NewChannelRegistry(ctx context.Context, log zerolog.Logger) *ChannelRegistry {
	return &ChannelRegistry{
		channels: make(map[domain.ChannelName]*core.Channel),
		ctx:      ctx,
		log:      log.With().Str("module", "app.channels").Logger(),
	}
}

// Create registers a new, empty channel. Fails with ErrAlreadyExists if
// the name is taken (spec.md §4.3).
func (r *ChannelRegistry) Create(name domain.ChannelName, owner string) (*core.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.channels[name]; ok {
		return nil, core.ErrAlreadyExists
	}
	ch := core.NewChannel(domain.NewChannel(name, owner), r.log)
	r.channels[name] = ch
	r.log.Info().Str("channel", string(name)).Str("owner", owner).Msg("channel created")
	return ch, nil
}

func (r *ChannelRegistry) Get(name domain.ChannelName) (*core.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[name]
	return ch, ok
}

// ChannelSummary is a listing/admin view of one channel (spec.md §4.6
// `channels`, §4.8 `snapshot`).
type ChannelSummary struct {
	Name      string   `json:"name"`
	Owner     string   `json:"owner"`
	UserCount int      `json:"user_count"`
	Users     []string `json:"users"`
}

// List returns a summary of every channel, in no particular order, used for the
// `channels{list}` broadcast and the admin `/admin/status` endpoint.
func (r *ChannelRegistry) List() []ChannelSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChannelSummary, 0, len(r.channels))
	for name, ch := range r.channels {
		out = append(out, ChannelSummary{
			Name:      string(name),
			Owner:     ch.Meta().Owner,
			UserCount: ch.MemberCount(),
			Users:     ch.Names(),
		})
	}
	return out
}

// Close removes a channel, enforcing ownership unless bypass is set
// (the admin surface's admin_delete_channel bypasses it — spec.md
// §4.8). Returns the removed channel so the caller can detach its
// members and stop its mixer before discarding it.
func (r *ChannelRegistry) Close(name domain.ChannelName, requester string, bypassOwner bool) (*core.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[name]
	if !ok {
		return nil, core.ErrNoSuchChannel
	}
	if !bypassOwner && ch.Meta().Owner != requester {
		return nil, core.ErrNotOwner
	}
	delete(r.channels, name)
	r.log.Info().Str("channel", string(name)).Msg("channel closed")
	return ch, nil
}

// StartMixer starts a channel's mixer under this registry's base
// lifetime context, called when AddMember reports a channel's
// membership just became non-empty (I5).
func (r *ChannelRegistry) StartMixer(ch *core.Channel) {
	ch.StartMixer(r.ctx)
}
