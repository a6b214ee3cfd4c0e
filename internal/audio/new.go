package audio

import (
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type implCapturer struct {
	format          Format
	framesPerBuffer int
	logger          logger.Logger
}

// NewCapturer creates a Capturer for the default input device.
func NewCapturer(format Format, framesPerBuffer int, log logger.Logger) Capturer {
	return &implCapturer{
		format:          format,
		framesPerBuffer: framesPerBuffer,
		logger:          log,
	}
}

type implEncoder struct {
	create func(path string) (wavFile, error)
}

// NewEncoder creates a WAV Encoder.
func NewEncoder() Encoder {
	return &implEncoder{create: createFile}
}
