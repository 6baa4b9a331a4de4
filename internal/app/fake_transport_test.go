package app

import (
	"sync"

	"github.com/duskline/walkie/internal/core"
)

// fakeTransport records sent frames/messages for assertions instead of
// touching a real websocket. Mirrors core's own test double
// (internal/core/transport_test.go); kept separate because it is
// unexported there and app needs its own for testing Orchestrator
// replies/broadcasts.
type fakeTransport struct {
	mu     sync.Mutex
	frames []core.Frame
	json   []any
	closed bool
}

func (f *fakeTransport) TrySend(frame core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeTransport) SendJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.json = append(f.json, v)
	return nil
}

func (f *fakeTransport) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeTransport) messages() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]any, len(f.json))
	copy(out, f.json)
	return out
}

func (f *fakeTransport) last() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.json) == 0 {
		return nil
	}
	return f.json[len(f.json)-1]
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// typesOf extracts the "type" wire field via a type switch over the
// concrete message structs the orchestrator sends, for assertions that
// only care about message ordering/kind.
func typesOf(msgs []any) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		switch v := m.(type) {
		case registeredMsg:
			out = append(out, v.Type)
		case channelsMsg:
			out = append(out, v.Type)
		case channelCreatedMsg:
			out = append(out, v.Type)
		case joinedMsg:
			out = append(out, v.Type)
		case userJoinedMsg:
			out = append(out, v.Type)
		case leftMsg:
			out = append(out, v.Type)
		case userLeftMsg:
			out = append(out, v.Type)
		case channelClosedMsg:
			out = append(out, v.Type)
		case channelDeletedMsg:
			out = append(out, v.Type)
		case talkingMsg:
			out = append(out, v.Type)
		case mutedMsg:
			out = append(out, v.Type)
		case pongMsg:
			out = append(out, v.Type)
		case KickedMsg:
			out = append(out, v.Type)
		case errorMsg:
			out = append(out, v.Type)
		default:
			out = append(out, "unknown")
		}
	}
	return out
}
