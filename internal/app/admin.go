package app

import (
	"time"

	"github.com/duskline/walkie/internal/domain"
)

// Snapshot is the full admin view (spec.md §4.8 `snapshot`, §6
// `/admin/status`: `{uptime, clients, channels}`).
type Snapshot struct {
	Uptime   float64          `json:"uptime"`
	Clients  []SessionInfo    `json:"clients"`
	Channels []ChannelSummary `json:"channels"`
}

// Snapshot builds the admin status view (spec.md §4.8, §6
// `/admin/status`).
func (o *Orchestrator) Snapshot(startedAt time.Time) Snapshot {
	channels := o.Channels.List()
	sessions := make([]SessionInfo, 0, len(channels))
	for _, ch := range channels {
		full, ok := o.Channels.Get(domain.ChannelName(ch.Name))
		if !ok {
			continue
		}
		for _, m := range full.Snapshot() {
			sessions = append(sessions, SessionInfo{
				Name:      m.Name,
				Channel:   ch.Name,
				Muted:     m.Muted,
				Talking:   m.Talking,
				QueueSize: m.QueueSize,
			})
		}
	}
	for _, id := range o.Sessions.AllRegistered() {
		s, ok := o.Sessions.Get(id)
		if !ok || s.InChannel() {
			continue
		}
		sessions = append(sessions, SessionInfo{Name: s.Name})
	}
	return Snapshot{
		Uptime:   time.Since(startedAt).Seconds(),
		Clients:  sessions,
		Channels: channels,
	}
}

// AdminCreateChannel creates a channel owned by the sentinel "admin"
// (spec.md §4.8 `admin_create_channel`).
func (o *Orchestrator) AdminCreateChannel(name string) error {
	_, err := o.Channels.Create(domain.ChannelName(name), domain.AdminOwner)
	if err != nil {
		return err
	}
	o.BroadcastAll(channelCreatedMsg{Type: "channel_created", Channel: name, Owner: domain.AdminOwner})
	o.BroadcastAll(channelsMsg{Type: "channels", List: o.Channels.List()})
	return nil
}

// AdminDeleteChannel deletes a channel regardless of owner (spec.md
// §4.8 `admin_delete_channel`).
func (o *Orchestrator) AdminDeleteChannel(name string) error {
	return o.CloseChannel("", name, true)
}

// AdminForceJoin attaches a named session to a channel (spec.md §4.8
// `admin_force_join`).
func (o *Orchestrator) AdminForceJoin(name, channel string) error {
	id, _, ok := o.Sessions.ByName(name)
	if !ok {
		return errNoSuchClient
	}
	return o.Join(id, channel)
}

// AdminForceLeave detaches a named session from its channel (spec.md
// §4.8 `admin_force_leave`).
func (o *Orchestrator) AdminForceLeave(name string) error {
	id, _, ok := o.Sessions.ByName(name)
	if !ok {
		return errNoSuchClient
	}
	o.Leave(id)
	return nil
}

// AdminForceMute sets a named session's mute flag; the notification to
// the affected client carries source:"admin" (spec.md §4.8
// `admin_force_mute`).
func (o *Orchestrator) AdminForceMute(name string, muted bool) error {
	id, s, ok := o.Sessions.ByName(name)
	if !ok {
		return errNoSuchClient
	}
	if !s.InChannel() {
		return errNoSuchClient
	}
	ch, ok := o.Channels.Get(s.Channel)
	if !ok || !ch.SetMuted(name, muted) {
		return errNoSuchClient
	}
	o.reply(id, mutedMsg{Type: "muted", Muted: muted, Source: domain.AdminOwner})
	return nil
}

// AdminKick disconnects a named session: it receives `kicked`, its
// channel hears `user_left`, and its transport is terminated (spec.md
// §4.8 `admin_kick`, S5).
func (o *Orchestrator) AdminKick(name string) error {
	id, _, ok := o.Sessions.ByName(name)
	if !ok {
		return errNoSuchClient
	}
	o.Evict(id, KickedMsg{Type: "kicked", Message: "Disconnected by an administrator"})
	return nil
}

// errNoSuchClient is returned by the by-name admin lookups when no
// registered session carries the given name. It is translated to HTTP
// 404 at the adapter boundary.
var errNoSuchClient = noSuchClientErr{}

type noSuchClientErr struct{}

func (noSuchClientErr) Error() string { return "No such client" }
