// Package miniaudio provides microphone capture and speaker playback for a
// questionnaire session through the malgo bindings.
package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/radpretation/surveyvoice-core/core/audio"
)

// Client owns one capture and one playback device configured for the
// session's shared encoding.
type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext

	capture  *malgo.Device
	playback *malgo.Device

	onAudio func(audio []byte)

	playbackBuffer []byte
	playbackMu     sync.Mutex

	mu sync.Mutex
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := &Client{audioContext: audioCtx}

	if err := client.initCapture(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := client.initPlayback(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return client, nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (c *Client) initCapture() error {
	format := malgo.FormatS16
	channels := 1
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = uint32(audio.DefaultSampleRate)
	config.Capture.Format = format
	config.Capture.Channels = uint32(channels)
	config.Alsa.NoMMap = 1
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = 480
	config.Periods = 3

	device, err := malgo.InitDevice(c.audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}

			c.mu.Lock()
			onAudio := c.onAudio
			c.mu.Unlock()
			if onAudio != nil {
				onAudio(pInput[:n])
			}
		},
	})
	if err != nil {
		return err
	}

	c.capture = device
	return nil
}

func (c *Client) initPlayback() error {
	format := malgo.FormatS16
	channels := 1
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(audio.DefaultSampleRate)
	config.Playback.Format = format
	config.Playback.Channels = uint32(channels)
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = uint32(audio.DefaultSampleRate / 10)
	config.Periods = 4

	device, err := malgo.InitDevice(c.audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame

			c.playbackMu.Lock()
			defer c.playbackMu.Unlock()

			copied := copy(pOutput[:n], c.playbackBuffer)
			c.playbackBuffer = c.playbackBuffer[copied:]
			for i := copied; i < n; i++ {
				pOutput[i] = 0
			}
		},
	})
	if err != nil {
		return err
	}

	c.playback = device
	return nil
}

// Stream starts microphone capture and hands every chunk to onAudio until
// the context is cancelled.
func (c *Client) Stream(ctx context.Context, onAudio func(audio []byte)) error {
	c.mu.Lock()
	c.onAudio = onAudio
	device := c.capture
	c.mu.Unlock()

	if device == nil {
		return fmt.Errorf("capture device not initialized")
	}
	if device.IsStarted() {
		return nil
	}

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		c.onAudio = nil
		c.mu.Unlock()
	}()

	return nil
}

// SendAudio queues synthesized speech for playback.
func (c *Client) SendAudio(chunk []byte) error {
	c.mu.Lock()
	device := c.playback
	c.mu.Unlock()

	if device == nil {
		return fmt.Errorf("playback device not initialized")
	}

	if !device.IsStarted() {
		if err := device.Start(); err != nil {
			return fmt.Errorf("failed to start playback device: %w", err)
		}
	}

	c.playbackMu.Lock()
	c.playbackBuffer = append(c.playbackBuffer, chunk...)
	c.playbackMu.Unlock()
	return nil
}

// ClearBuffer drops any queued but unplayed audio.
func (c *Client) ClearBuffer() {
	c.playbackMu.Lock()
	c.playbackBuffer = nil
	c.playbackMu.Unlock()
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		c.capture.Uninit()
		c.capture = nil
	}
	if c.playback != nil {
		c.playback.Uninit()
		c.playback = nil
	}
	if c.audioContext != nil {
		_ = c.audioContext.Uninit()
		c.audioContext.Free()
		c.audioContext = nil
	}
}
