package audio

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"
)

// Capture opens the default capture device, collects exactly
// format.BytesFor(seconds) bytes and releases the device on every return path.
func (c *implCapturer) Capture(ctx context.Context, seconds int) ([]byte, error) {
	if seconds <= 0 {
		return nil, fmt.Errorf("capture duration must be positive, got %d", seconds)
	}
	if c.format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d", c.format.BitDepth)
	}

	want := c.format.BytesFor(seconds)

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		c.logger.Debug(ctx, "malgo: %s", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(c.format.Channels)
	deviceConfig.SampleRate = uint32(c.format.SampleRate)
	if c.framesPerBuffer > 0 {
		deviceConfig.PeriodSizeInFrames = uint32(c.framesPerBuffer)
	}
	deviceConfig.Alsa.NoMMap = 1

	var (
		mu   sync.Mutex
		buf  = make([]byte, 0, want)
		done = make(chan struct{})
		once sync.Once
	)

	// Runs on the device thread; the input slice is reused after return.
	onData := func(_, input []byte, _ uint32) {
		mu.Lock()
		defer mu.Unlock()
		if len(buf) >= want {
			return
		}
		n := min(len(input), want-len(buf))
		buf = append(buf, input[:n]...)
		if len(buf) >= want {
			once.Do(func() { close(done) })
		}
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return nil, fmt.Errorf("open input device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return nil, fmt.Errorf("start input device: %w", err)
	}

	c.logger.Info(ctx, "Recording started (%ds)", seconds)

	select {
	case <-done:
	case <-ctx.Done():
		_ = device.Stop()
		c.logger.Info(ctx, "Recording interrupted")
		return nil, ctx.Err()
	}

	if err := device.Stop(); err != nil {
		c.logger.Warn(ctx, "Failed to stop input device: %v", err)
	}

	c.logger.Info(ctx, "Recording finished")

	mu.Lock()
	defer mu.Unlock()
	return buf, nil
}
