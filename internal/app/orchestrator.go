package app

import (
	"strings"
	"time"

	"github.com/duskline/walkie/internal/core"
	"github.com/duskline/walkie/internal/domain"
	"github.com/rs/zerolog"
)

// Orchestrator is the single stewarding entity spec.md §9 calls for: all
// mutations to the session table and channel registry flow through its
// methods, and it owns the signalling protocol's wire vocabulary —
// every reply and broadcast in spec.md §4.6 is built and sent here.
// internal/adapters/ws only frames and dispatches; internal/adapters/http
// calls the admin methods below directly. Grounded on the teacher's
// Orchestrator (internal/app/orchestrator.go), generalised from WebRTC
// room membership to the full state machine spec.md §4.6 describes.
type Orchestrator struct {
	Sessions *Registry
	Channels *ChannelRegistry

	log zerolog.Logger
}

func NewOrchestrator(sessions *Registry, channels *ChannelRegistry, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		Sessions: sessions,
		Channels: channels,
		log:      log.With().Str("module", "app.orchestrator").Logger(),
	}
}

func (o *Orchestrator) reply(id core.ConnID, v any) {
	if t, ok := o.Sessions.Transport(id); ok {
		_ = t.SendJSON(v)
	}
}

func (o *Orchestrator) replyError(id core.ConnID, err error) {
	o.reply(id, newErrorMsg(err))
}

// BroadcastToChannel sends v to every member of ch except the named
// exclude (spec.md §4.6 "broadcast ... to channel (excluding sender)").
// Pass "" to exclude no one.
func (o *Orchestrator) BroadcastToChannel(ch domain.ChannelName, v any, exclude string) {
	channel, ok := o.Channels.Get(ch)
	if !ok {
		return
	}
	for _, name := range channel.Names() {
		if name == exclude {
			continue
		}
		if id, _, ok := o.Sessions.ByName(name); ok {
			o.reply(id, v)
		}
	}
}

// BroadcastAll sends v to every registered session (spec.md §4.6
// `channels`, `channel_created`, `channel_deleted`: global catalog
// events, not scoped to one channel).
func (o *Orchestrator) BroadcastAll(v any) {
	for _, id := range o.Sessions.AllRegistered() {
		o.reply(id, v)
	}
}

// Register validates and assigns a session's name, then replies
// `registered` or `error` (spec.md §4.6 `register`).
func (o *Orchestrator) Register(id core.ConnID, rawName string) error {
	name := strings.TrimSpace(rawName)
	if err := o.Sessions.Register(id, name); err != nil {
		o.replyError(id, err)
		return err
	}
	o.reply(id, registeredMsg{Type: "registered", Name: name, Channels: o.Channels.List()})
	return nil
}

// CreateChannel creates a channel owned by the caller, then broadcasts
// `channel_created` and `channels` to everyone (spec.md §4.6
// `create_channel`).
func (o *Orchestrator) CreateChannel(id core.ConnID, rawName string) error {
	s, ok := o.Sessions.Get(id)
	if !ok || !s.Registered() {
		o.replyError(id, core.ErrNotRegistered)
		return core.ErrNotRegistered
	}
	name := domain.ChannelName(strings.TrimSpace(rawName))
	if name == "" {
		o.replyError(id, core.ErrEmptyName)
		return core.ErrEmptyName
	}
	if _, err := o.Channels.Create(name, s.Name); err != nil {
		o.replyError(id, err)
		return err
	}
	o.BroadcastAll(channelCreatedMsg{Type: "channel_created", Channel: string(name), Owner: s.Name})
	o.BroadcastAll(channelsMsg{Type: "channels", List: o.Channels.List()})
	return nil
}

// detachFromCurrent removes s from its current channel, if any, and
// stops that channel's mixer if it just emptied. Returns the vacated
// channel name, or "" if the session wasn't in one.
func (o *Orchestrator) detachFromCurrent(id core.ConnID, s *domain.Session) domain.ChannelName {
	if !s.InChannel() {
		return ""
	}
	prev := s.Channel
	if ch, ok := o.Channels.Get(prev); ok {
		if ch.RemoveMember(s.Name) {
			ch.StopMixer()
		}
	}
	o.Sessions.SetChannel(id, "")
	return prev
}

// attach is the membership step behind Join (and so behind Switch to a
// different channel): it does not build or send the `joined` reply,
// which Join sends itself. Switch's same-channel path does not call it.
func (o *Orchestrator) attach(id core.ConnID, s *domain.Session, name domain.ChannelName) (*core.Channel, error) {
	ch, ok := o.Channels.Get(name)
	if !ok {
		return nil, core.ErrNoSuchChannel
	}
	start, err := ch.AddMember(s.Name, mustTransport(o.Sessions, id))
	if err != nil {
		return nil, err
	}
	if start {
		o.Channels.StartMixer(ch)
	}
	o.Sessions.SetChannel(id, name)
	return ch, nil
}

// Join attaches the caller to a channel: replies `joined` to the
// joiner, then broadcasts `user_joined` and `channels` (spec.md §4.6
// `join`; the ordering matches §5's "joined before user_joined"
// guarantee). If the caller already belongs to another channel, it is
// detached first so `join` is never rejected merely because the
// session was already elsewhere — switch uses the same sequencing.
func (o *Orchestrator) Join(id core.ConnID, rawName string) error {
	s, ok := o.Sessions.Get(id)
	if !ok || !s.Registered() {
		o.replyError(id, core.ErrNotRegistered)
		return core.ErrNotRegistered
	}
	name := domain.ChannelName(strings.TrimSpace(rawName))

	left := o.detachFromCurrent(id, s)
	if left != "" {
		o.BroadcastToChannel(left, userLeftMsg{Type: "user_left", Name: s.Name, Channel: string(left)}, s.Name)
	}

	ch, err := o.attach(id, s, name)
	if err != nil {
		o.replyError(id, err)
		return err
	}

	o.reply(id, joinedMsg{Type: "joined", Channel: string(name), Owner: ch.Meta().Owner, Users: ch.Names()})
	o.BroadcastToChannel(name, userJoinedMsg{Type: "user_joined", Name: s.Name}, s.Name)
	o.BroadcastAll(channelsMsg{Type: "channels", List: o.Channels.List()})
	return nil
}

// Switch re-joins the caller to a different channel, or no-ops on
// membership when the target is already current (Q2 resolution,
// SPEC_FULL.md §3): no leave/join cycle, no broadcasts, but `joined`
// is still replied.
func (o *Orchestrator) Switch(id core.ConnID, rawName string) error {
	s, ok := o.Sessions.Get(id)
	if !ok || !s.Registered() {
		o.replyError(id, core.ErrNotRegistered)
		return core.ErrNotRegistered
	}
	if !s.InChannel() {
		o.replyError(id, core.ErrNotRegistered)
		return core.ErrNotRegistered
	}
	name := domain.ChannelName(strings.TrimSpace(rawName))
	if name == s.Channel {
		ch, ok := o.Channels.Get(name)
		if !ok {
			o.replyError(id, core.ErrNoSuchChannel)
			return core.ErrNoSuchChannel
		}
		o.reply(id, joinedMsg{Type: "joined", Channel: string(name), Owner: ch.Meta().Owner, Users: ch.Names()})
		return nil
	}
	return o.Join(id, rawName)
}

// Leave detaches the caller from its current channel, replies `left`,
// and broadcasts `user_left` to the channel it vacated (spec.md §4.6
// `leave`).
func (o *Orchestrator) Leave(id core.ConnID) {
	s, ok := o.Sessions.Get(id)
	if !ok || !s.InChannel() {
		o.reply(id, leftMsg{Type: "left"})
		return
	}
	name := s.Name
	prev := o.detachFromCurrent(id, s)
	o.reply(id, leftMsg{Type: "left"})
	if prev != "" {
		o.BroadcastToChannel(prev, userLeftMsg{Type: "user_left", Name: name, Channel: string(prev)}, name)
	}
}

// CloseChannel deletes a channel, detaching and notifying every member,
// then broadcasts `channel_deleted` globally (spec.md §4.3, §4.6
// `close_channel`). bypassOwner lets the admin surface skip the
// NotOwner check (spec.md §4.8 `admin_delete_channel`). Returns an
// error only for the caller (ws reply / HTTP status); it has already
// been reported to the requester's own transport when id is a live
// signalling connection.
func (o *Orchestrator) CloseChannel(id core.ConnID, rawName string, bypassOwner bool) error {
	var requester string
	if !bypassOwner {
		s, ok := o.Sessions.Get(id)
		if !ok || !s.Registered() {
			o.replyError(id, core.ErrNotRegistered)
			return core.ErrNotRegistered
		}
		requester = s.Name
	}
	name := domain.ChannelName(strings.TrimSpace(rawName))
	ch, err := o.Channels.Close(name, requester, bypassOwner)
	if err != nil {
		if !bypassOwner {
			o.replyError(id, err)
		}
		return err
	}
	for _, memberName := range ch.Names() {
		if cid, _, ok := o.Sessions.ByName(memberName); ok {
			o.Sessions.SetChannel(cid, "")
			o.reply(cid, channelClosedMsg{Type: "channel_closed", Channel: string(name)})
		}
	}
	ch.StopMixer()
	o.BroadcastAll(channelDeletedMsg{Type: "channel_deleted", Channel: string(name)})
	return nil
}

// ListChannels replies `channels` with the current catalog (spec.md
// §4.6 `list_channels`).
func (o *Orchestrator) ListChannels(id core.ConnID) {
	o.reply(id, channelsMsg{Type: "channels", List: o.Channels.List()})
}

// SetTalking updates a member's push-to-talk flag and broadcasts
// `talking` to the rest of the channel (spec.md §4.6 `talking`). Silent
// no-op outside registered-in-channel — the table lists no error kind
// for this transition.
func (o *Orchestrator) SetTalking(id core.ConnID, talking bool) {
	s, ok := o.Sessions.Get(id)
	if !ok || !s.InChannel() {
		return
	}
	ch, ok := o.Channels.Get(s.Channel)
	if !ok || !ch.SetTalking(s.Name, talking) {
		return
	}
	o.BroadcastToChannel(s.Channel, talkingMsg{Type: "talking", Name: s.Name, Talking: talking}, s.Name)
}

// SetMuted updates a member's mute flag and replies `muted` to the
// caller (spec.md §4.6 `mute`).
func (o *Orchestrator) SetMuted(id core.ConnID, muted bool) {
	s, ok := o.Sessions.Get(id)
	if !ok || !s.InChannel() {
		return
	}
	ch, ok := o.Channels.Get(s.Channel)
	if !ok || !ch.SetMuted(s.Name, muted) {
		return
	}
	o.reply(id, mutedMsg{Type: "muted", Muted: muted})
}

// Ping refreshes a session's liveness timestamp and replies `pong`
// (spec.md §4.6 `ping`).
func (o *Orchestrator) Ping(id core.ConnID, now time.Time) {
	if !o.Sessions.Touch(id, now) {
		return
	}
	o.reply(id, pongMsg{Type: "pong"})
}

// OnFrame routes an inbound binary frame to the caller's channel, where
// push-to-talk/mute gating and queueing happen (spec.md §4.6 binary
// frame rule).
func (o *Orchestrator) OnFrame(id core.ConnID, f core.Frame) {
	s, ok := o.Sessions.Get(id)
	if !ok || !s.InChannel() {
		return
	}
	ch, ok := o.Channels.Get(s.Channel)
	if !ok {
		return
	}
	ch.PushFrame(s.Name, f)
}

// OnDisconnect tears down a session's membership and removes it from
// the table, broadcasting `user_left` if it was in a channel (spec.md
// §4.7, §5 "idempotent with client-initiated disconnect"). Safe to
// call twice for the same id.
func (o *Orchestrator) OnDisconnect(id core.ConnID) {
	s, ok := o.Sessions.Remove(id)
	if !ok || !s.InChannel() {
		return
	}
	ch, ok := o.Channels.Get(s.Channel)
	if ok && ch.RemoveMember(s.Name) {
		ch.StopMixer()
	}
	o.BroadcastToChannel(s.Channel, userLeftMsg{Type: "user_left", Name: s.Name, Channel: string(s.Channel)}, s.Name)
}

// Evict forcibly tears down a session: optionally sends notice over its
// transport, then runs the same teardown as OnDisconnect, then closes
// the transport. Used by the watchdog (spec.md §4.7, notice nil — the
// peer is presumed unreachable) and by the admin surface's
// `admin_kick` (spec.md §4.8, notice the `kicked` message).
func (o *Orchestrator) Evict(id core.ConnID, notice any) {
	t, hasTransport := o.Sessions.Transport(id)
	if notice != nil && hasTransport {
		_ = t.SendJSON(notice)
	}
	o.OnDisconnect(id)
	if hasTransport {
		t.Close()
	}
}

// UnknownType replies `error` for an unrecognised message type (spec.md
// §4.6 "Unknown type").
func (o *Orchestrator) UnknownType(id core.ConnID, t string) {
	o.replyError(id, core.UnknownTypeErr(t))
}

func mustTransport(r *Registry, id core.ConnID) core.Transport {
	t, _ := r.Transport(id)
	return t
}
