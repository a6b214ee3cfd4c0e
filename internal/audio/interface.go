package audio

import "context"

// Capturer records raw little-endian PCM from the default input device.
type Capturer interface {
	// Capture blocks until seconds of audio have been collected or ctx is
	// done. The device is opened and released within the call.
	Capture(ctx context.Context, seconds int) ([]byte, error)
}

// Encoder wraps raw PCM into an audio container on disk.
type Encoder interface {
	// Encode writes pcm to path, replacing any existing file.
	Encode(pcm []byte, format Format, path string) error
}

// Format describes interleaved integer PCM.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat is mono 16-bit at 44.1kHz.
func DefaultFormat() Format {
	return Format{
		SampleRate: 44100,
		Channels:   1,
		BitDepth:   16,
	}
}

// FrameBytes is the size of one frame (one sample per channel).
func (f Format) FrameBytes() int {
	return f.Channels * f.BitDepth / 8
}

// BytesFor is the PCM size of the given duration.
func (f Format) BytesFor(seconds int) int {
	return seconds * f.SampleRate * f.FrameBytes()
}
