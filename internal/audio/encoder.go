package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavPCMFormat is the WAVE_FORMAT_PCM tag.
const wavPCMFormat = 1

// Info is the header summary of a WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

type wavFile interface {
	io.WriteSeeker
	io.Closer
}

func createFile(path string) (wavFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Encode writes 16-bit little-endian pcm to path as a PCM WAV file.
func (e *implEncoder) Encode(pcm []byte, format Format, path string) (err error) {
	if len(pcm) == 0 {
		return fmt.Errorf("cannot encode empty audio")
	}
	if format.BitDepth != 16 {
		return fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", format.BitDepth)
	}
	if format.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", format.SampleRate)
	}
	if format.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", format.Channels)
	}
	if len(pcm)%format.FrameBytes() != 0 {
		return fmt.Errorf("pcm length %d is not a whole number of %d-byte frames", len(pcm), format.FrameBytes())
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create audio dir: %w", err)
		}
	}

	f, err := e.create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close wav file: %w", cerr)
		}
	}()

	enc := wav.NewEncoder(f, format.SampleRate, format.BitDepth, format.Channels, wavPCMFormat)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Data:           samples,
		SourceBitDepth: format.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav header: %w", err)
	}

	return nil
}

// Inspect reads the header of a WAV file.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav file: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locate wav data chunk: %w", err)
	}

	info := &Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}
	if bytesPerSec := info.SampleRate * info.Channels * info.BitDepth / 8; bytesPerSec > 0 {
		info.Duration = time.Duration(float64(d.PCMLen()) / float64(bytesPerSec) * float64(time.Second))
	}
	return info, nil
}
