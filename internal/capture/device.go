// ABOUTME: Malgo-based microphone capture device
// ABOUTME: Delivers raw sample blocks from the OS capture callback to the pipeline
package capture

import (
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/pcm"
	"github.com/gen2brain/malgo"
)

// DeviceConfig holds capture device settings.
type DeviceConfig struct {
	// SampleRate is the native capture rate to request from the device.
	SampleRate int

	// Channels is the number of capture channels to request.
	Channels int

	// BlockBuffer is the channel capacity for raw blocks. The miniaudio
	// callback never blocks; blocks are dropped when the consumer lags.
	BlockBuffer int
}

// Device captures raw microphone audio via miniaudio. The OS callback runs
// on the real-time audio path; it only converts samples and hands them off.
// All accumulation and encoding happens on the consumer's goroutine.
type Device struct {
	cfg      DeviceConfig
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device

	blocks chan []float32
	errs   chan error

	mu      sync.Mutex
	running bool
	dropped atomic.Int64
}

// NewDevice creates a capture device.
func NewDevice(cfg DeviceConfig) *Device {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.BlockBuffer <= 0 {
		cfg.BlockBuffer = 64
	}

	return &Device{
		cfg:    cfg,
		blocks: make(chan []float32, cfg.BlockBuffer),
		errs:   make(chan error, 1),
	}
}

// Start acquires the device and begins capture. Failure here is fatal to the
// outbound direction; the caller surfaces it and does not retry internally.
func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize capture context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(d.cfg.Channels)
	deviceConfig.SampleRate = uint32(d.cfg.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onSamples := func(pOutputSamples, pInputSamples []byte, frameCount uint32) {
		d.dataCallback(pInputSamples)
	}
	onStop := func() {
		select {
		case d.errs <- fmt.Errorf("capture device stopped"):
		default:
		}
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
		Stop: onStop,
	})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	d.malgoCtx = ctx
	d.device = device
	d.running = true

	log.Printf("capture: initialized %dHz, %d channels (malgo)", d.cfg.SampleRate, d.cfg.Channels)
	return nil
}

// Stop halts capture and releases the device.
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	d.running = false

	d.device.Uninit()
	d.device = nil
	d.malgoCtx.Uninit()
	d.malgoCtx.Free()
	d.malgoCtx = nil

	if n := d.dropped.Load(); n > 0 {
		log.Printf("capture: dropped %d blocks under consumer backpressure", n)
	}
}

// Blocks returns the raw sample block channel. Blocks are interleaved
// normalized floats at the device's native rate.
func (d *Device) Blocks() <-chan []float32 {
	return d.blocks
}

// Errors returns the capture error channel.
func (d *Device) Errors() <-chan error {
	return d.errs
}

// dataCallback converts one callback's worth of S16 bytes and hands it off
// without blocking the real-time thread.
func (d *Device) dataCallback(input []byte) {
	n := len(input) / 2
	if n == 0 {
		return
	}
	block := make([]float32, n)
	for i := 0; i < n; i++ {
		block[i] = pcm.Int16ToFloat(int16(binary.LittleEndian.Uint16(input[i*2:])))
	}

	select {
	case d.blocks <- block:
	default:
		d.dropped.Add(1)
	}
}
