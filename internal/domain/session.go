// Package domain contains entities without logic, just meta-data.
package domain

import "time"

// ChannelName is the unique key of a Channel.
type ChannelName string

// Session is one live connection. Name is set by the first register
// message; it is empty before that.
type Session struct {
	Name        string
	Channel     ChannelName
	ConnectedAt time.Time
	LastPingAt  time.Time
}

// NewSession starts an unregistered session at the given time.
func NewSession(now time.Time) *Session {
	return &Session{ConnectedAt: now, LastPingAt: now}
}

// Registered reports whether the first register message has landed.
func (s *Session) Registered() bool {
	return s.Name != ""
}

// InChannel reports whether the session currently belongs to a channel.
func (s *Session) InChannel() bool {
	return s.Channel != ""
}
