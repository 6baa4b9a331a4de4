package core

import "encoding/binary"

const (
	// FrameBytes is the wire size of one audio frame: 320 samples of
	// 16-bit little-endian PCM (spec.md §3, §6).
	FrameBytes = 640
	// SampleCount is the number of int16 samples per frame.
	SampleCount = FrameBytes / 2
)

// Frame is a raw 640-byte PCM payload, 20ms of 16kHz 16-bit mono audio.
type Frame []byte

// Valid reports whether f is exactly one frame's worth of bytes. Frames of
// any other length are dropped silently by callers (spec.md §3).
func (f Frame) Valid() bool {
	return len(f) == FrameBytes
}

// decode unpacks a frame into signed 16-bit samples.
func decode(f Frame) [SampleCount]int16 {
	var out [SampleCount]int16
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(f[i*2 : i*2+2]))
	}
	return out
}

// encode packs signed 16-bit samples into a new frame.
func encode(samples [SampleCount]int16) Frame {
	f := make(Frame, FrameBytes)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(f[i*2:i*2+2], uint16(s))
	}
	return f
}
