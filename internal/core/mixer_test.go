package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameOf(sample int16) Frame {
	var samples [SampleCount]int16
	samples[0] = sample
	return encode(samples)
}

// TestTickRequiresJitterFloor pins I6/§4.2: a speaker needs 2 buffered
// frames before it counts as an eligible contributor.
func TestTickRequiresJitterFloor(t *testing.T) {
	ch := testChannel("room")
	aT := &fakeTransport{}
	bT := &fakeTransport{}
	_, _ = ch.AddMember("a", aT)
	_, _ = ch.AddMember("b", bT)
	ch.SetTalking("a", true)

	ch.PushFrame("a", frameOf(100))
	ch.tick()
	assert.Equal(t, 0, bT.frameCount(), "one queued frame is below the jitter floor")

	ch.PushFrame("a", frameOf(100))
	ch.tick()
	assert.Equal(t, 1, bT.frameCount(), "two queued frames clears the floor")
}

// TestTickExcludesListenerFromOwnMix pins §4.5 step 2: a speaker never
// hears itself.
func TestTickExcludesListenerFromOwnMix(t *testing.T) {
	ch := testChannel("room")
	aT := &fakeTransport{}
	_, _ = ch.AddMember("a", aT)
	ch.SetTalking("a", true)
	ch.PushFrame("a", frameOf(100))
	ch.PushFrame("a", frameOf(100))

	ch.tick()
	assert.Equal(t, 0, aT.frameCount(), "a lone speaker is its own only listener and must hear nothing")
}

// TestTickMutedOrSilentListenerHearsNothing pins the §8 law: a listener
// with all other members muted/non-talking receives no outbound frame.
func TestTickMutedOrSilentListenerHearsNothing(t *testing.T) {
	ch := testChannel("room")
	aT := &fakeTransport{}
	bT := &fakeTransport{}
	_, _ = ch.AddMember("a", aT)
	_, _ = ch.AddMember("b", bT)
	// b never sets talking=true.

	ch.tick()
	assert.Equal(t, 0, aT.frameCount())
	assert.Equal(t, 0, bT.frameCount())
}

// TestTickThreeWayMixGain pins S3: with two contributing speakers, gain
// is 0.7/2.
func TestTickThreeWayMixGain(t *testing.T) {
	ch := testChannel("room")
	aT, bT, cT := &fakeTransport{}, &fakeTransport{}, &fakeTransport{}
	_, _ = ch.AddMember("a", aT)
	_, _ = ch.AddMember("b", bT)
	_, _ = ch.AddMember("c", cT)

	for _, name := range []string{"a", "b", "c"} {
		ch.SetTalking(name, true)
	}
	for i := 0; i < 2; i++ {
		ch.PushFrame("a", frameOf(1000))
		ch.PushFrame("b", frameOf(1000))
		ch.PushFrame("c", frameOf(1000))
	}

	ch.tick()

	got, ok := aT.lastFrame()
	require.True(t, ok)
	samples := decode(got)
	// a hears b+c mixed at gain 0.7/2: two 1000-amplitude contributions.
	expected := saturate(softClip(2 * normalize(1000) * gain(2)))
	assert.InDelta(t, expected, samples[0], 1)
}
