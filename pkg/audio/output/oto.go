// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays each scheduled buffer on its own short-lived oto player
package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/pcm"
	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using the oto library. Each scheduled buffer gets
// its own player so a single in-flight buffer can be halted without tearing
// down the device.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	sampleRate int
	ready      bool
}

// NewOto creates a new Oto output sink.
func NewOto() *Oto {
	return &Oto{}
}

// Open initializes the output device.
func (o *Oto) Open(sampleRate int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// oto allows one context per process; reuse it on matching format.
	if o.otoCtx != nil {
		if o.sampleRate != sampleRate {
			log.Printf("output: format change (%dHz -> %dHz) not supported by oto, keeping existing context",
				o.sampleRate, sampleRate)
		}
		o.ready = true
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.ready = true

	log.Printf("output: initialized %dHz mono (oto)", sampleRate)
	return nil
}

// Now returns the sink clock. Oto commits start instants against the
// process monotonic clock, so that is the clock schedules are expressed on.
func (o *Oto) Now() time.Time {
	return time.Now()
}

// PlayAt schedules samples to begin sounding at the given time.
func (o *Oto) PlayAt(samples []float32, at time.Time) (Playout, error) {
	o.mu.Lock()
	ctx, rate, ready := o.otoCtx, o.sampleRate, o.ready
	o.mu.Unlock()

	if !ready {
		return nil, fmt.Errorf("output not initialized")
	}

	// Quantize up front so the deadline goroutine does no conversion work.
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(pcm.FloatToInt16(s)))
	}
	duration := time.Duration(len(samples)) * time.Second / time.Duration(rate)

	p := &otoPlayout{
		stopc: make(chan struct{}),
		done:  make(chan struct{}),
	}
	go p.run(ctx, data, at, duration)
	return p, nil
}

// Close releases the device. The oto context itself cannot be destroyed, so
// it is suspended for reuse on a later Open.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			return fmt.Errorf("failed to suspend output: %w", err)
		}
	}
	o.ready = false
	return nil
}

// otoPlayout tracks one scheduled buffer from its due time to completion.
type otoPlayout struct {
	mu      sync.Mutex
	player  *oto.Player
	stopped bool
	stopc   chan struct{}
	done    chan struct{}
}

// Done reports playout completion.
func (p *otoPlayout) Done() <-chan struct{} { return p.done }

// Stop halts the playout immediately.
func (p *otoPlayout) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	player := p.player
	p.player = nil
	close(p.stopc)
	p.mu.Unlock()

	if player != nil {
		player.Close()
	}
}

// run waits for the due time, starts the player and retires it when the
// buffer has drained or the playout is stopped.
func (p *otoPlayout) run(ctx *oto.Context, data []byte, at time.Time, duration time.Duration) {
	defer close(p.done)

	if wait := time.Until(at); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-p.stopc:
			timer.Stop()
			return
		}
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	player := ctx.NewPlayer(bytes.NewReader(data))
	p.player = player
	p.mu.Unlock()

	player.Play()

	// The player has its own internal buffer; allow a small drain margin
	// past the nominal duration before closing.
	timer := time.NewTimer(duration + 10*time.Millisecond)
	select {
	case <-timer.C:
	case <-p.stopc:
		timer.Stop()
		return
	}

	p.mu.Lock()
	if p.player != nil {
		p.player.Close()
		p.player = nil
	}
	p.mu.Unlock()
}
