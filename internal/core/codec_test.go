package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func silentFrame() Frame { return make(Frame, FrameBytes) }

func TestMixAllSilence(t *testing.T) {
	out := Mix([]Frame{silentFrame(), silentFrame()})
	for _, s := range decode(out) {
		assert.Zero(t, s)
	}
}

// TestMixSingleSpeakerUnitGain pins law from spec.md §8: with exactly
// one contributing speaker, the listener receives frames bit-identical
// to what the speaker sent, modulo the tanh soft-clip's sub-LSB
// deviation for |s| <= 0.5.
func TestMixSingleSpeakerUnitGain(t *testing.T) {
	var samples [SampleCount]int16
	samples[0] = 500 // small amplitude: tanh(x) ≈ x, within 1 LSB of identity
	in := encode(samples)

	out := decode(Mix([]Frame{in}))
	assert.InDelta(t, samples[0], out[0], 1)
}

func TestGainPolicy(t *testing.T) {
	assert.Equal(t, float32(1.0), gain(0))
	assert.Equal(t, float32(1.0), gain(1))
	assert.InDelta(t, float32(0.35), gain(2), 1e-6)
	assert.InDelta(t, float32(0.7)/3, gain(3), 1e-6)
}

func TestSaturateClampsToInt16Range(t *testing.T) {
	assert.Equal(t, int16(32767), saturate(2.0))
	assert.Equal(t, int16(-32767), saturate(-2.0))
}
