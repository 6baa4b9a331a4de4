package core

import (
	"testing"

	"github.com/duskline/walkie/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChannel(name string) *Channel {
	return NewChannel(domain.NewChannel(domain.ChannelName(name), "alice"), zerolog.Nop())
}

func TestAddMemberStartsOnFirstJoin(t *testing.T) {
	ch := testChannel("room")
	start, err := ch.AddMember("alice", &fakeTransport{})
	require.NoError(t, err)
	assert.True(t, start, "first member must report the mixer should start (I5)")

	start, err = ch.AddMember("bob", &fakeTransport{})
	require.NoError(t, err)
	assert.False(t, start, "second member joining a non-empty channel must not re-trigger mixer start")
}

func TestAddMemberRejectsDuplicateNameInChannel(t *testing.T) {
	ch := testChannel("room")
	_, err := ch.AddMember("alice", &fakeTransport{})
	require.NoError(t, err)

	_, err = ch.AddMember("alice", &fakeTransport{})
	assert.ErrorIs(t, err, ErrNameInUseInChannel)
}

func TestRemoveMemberReportsEmptiness(t *testing.T) {
	ch := testChannel("room")
	_, _ = ch.AddMember("alice", &fakeTransport{})
	_, _ = ch.AddMember("bob", &fakeTransport{})

	assert.False(t, ch.RemoveMember("alice"), "channel still has bob")
	assert.True(t, ch.RemoveMember("bob"), "channel is now empty (I5)")
}

func TestPushFrameGatesOnMutedAndTalking(t *testing.T) {
	ch := testChannel("room")
	_, _ = ch.AddMember("alice", &fakeTransport{})

	ch.PushFrame("alice", silentFrame()) // not talking yet: dropped
	assert.Equal(t, 0, ch.Snapshot()[0].QueueSize)

	ch.SetTalking("alice", true)
	ch.PushFrame("alice", silentFrame())
	assert.Equal(t, 1, ch.Snapshot()[0].QueueSize)

	ch.SetMuted("alice", true)
	ch.PushFrame("alice", silentFrame())
	assert.Equal(t, 1, ch.Snapshot()[0].QueueSize, "muted members must not enqueue")
}

func TestPushFrameDropsWrongLength(t *testing.T) {
	ch := testChannel("room")
	_, _ = ch.AddMember("alice", &fakeTransport{})
	ch.SetTalking("alice", true)

	ch.PushFrame("alice", Frame(make([]byte, 639)))
	ch.PushFrame("alice", Frame(make([]byte, 641)))
	assert.Equal(t, 0, ch.Snapshot()[0].QueueSize)
}
