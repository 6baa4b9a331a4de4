package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameValid(t *testing.T) {
	assert.True(t, Frame(make([]byte, FrameBytes)).Valid())
	assert.False(t, Frame(make([]byte, FrameBytes-1)).Valid())
	assert.False(t, Frame(make([]byte, FrameBytes+1)).Valid())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var samples [SampleCount]int16
	samples[0] = 1234
	samples[1] = -1234
	samples[SampleCount-1] = 32767

	f := encode(samples)
	assert.True(t, f.Valid())
	assert.Equal(t, samples, decode(f))
}
