// ABOUTME: Main session orchestration wiring capture, transport and playback
// ABOUTME: Coordinates the duplex pipeline and the barge-in path
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Talkwire-Protocol/talkwire-go/internal/bargein"
	"github.com/Talkwire-Protocol/talkwire-go/internal/capture"
	"github.com/Talkwire-Protocol/talkwire-go/internal/client"
	"github.com/Talkwire-Protocol/talkwire-go/internal/config"
	"github.com/Talkwire-Protocol/talkwire-go/internal/metrics"
	"github.com/Talkwire-Protocol/talkwire-go/internal/playback"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/output"
	"github.com/google/uuid"
)

// Status is a point-in-time snapshot of the session for observers.
type Status struct {
	Connected  bool
	ServerAddr string
	State      string
	Sounding   bool
	Level      float64
	Encoded    int64
	Received   int64
	Dropped    int64
	Rebuffers  int64
	BargeIns   int64
}

// Session owns the full duplex pipeline: capture device through encoder to
// the transport, and transport through decoder to the playback scheduler,
// with the barge-in detector bridging the two directions.
type Session struct {
	cfg *config.Config
	met *metrics.Metrics // optional

	client    *client.Client
	device    *capture.Device
	encoder   *capture.Encoder
	decoder   *playback.Decoder
	scheduler *playback.Scheduler
	detector  *bargein.Detector
	sink      output.Sink

	// OnStatus, if set, receives periodic status snapshots.
	OnStatus func(Status)

	sounding  atomic.Bool
	connected atomic.Bool
	encoded   atomic.Int64
	received  atomic.Int64
	dropped   atomic.Int64
	rebuffers atomic.Int64
	bargeIns  atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a session. A nil sink selects the oto output device; a nil
// met disables metrics.
func New(cfg *config.Config, sink output.Sink, met *metrics.Metrics) *Session {
	if sink == nil {
		sink = output.NewOto()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		cfg:    cfg,
		met:    met,
		sink:   sink,
		ctx:    ctx,
		cancel: cancel,
	}

	s.scheduler = playback.NewScheduler(sink, playback.Config{
		PreBufferCount: cfg.Playback.PreBufferCount,
		MinBufferCount: cfg.Playback.MinBufferCount,
		LookAheadCount: cfg.Playback.LookAheadCount,
		SafetyMargin:   cfg.Playback.SafetyMargin(),
		OnSounding:     s.onSounding,
		OnStateChange:  s.onStateChange,
	})
	s.decoder = playback.NewDecoder(cfg.Audio.InboundRate)
	s.encoder = capture.NewEncoder(capture.EncoderConfig{
		DeviceRate:    cfg.Audio.CaptureRate,
		Channels:      cfg.Audio.CaptureChannels,
		ChunkDuration: cfg.Audio.ChunkDuration(),
		OutboundRate:  cfg.Audio.OutboundRate,
	})
	s.device = capture.NewDevice(capture.DeviceConfig{
		SampleRate: cfg.Audio.CaptureRate,
		Channels:   cfg.Audio.CaptureChannels,
	})

	meter := bargein.NewMeter(cfg.Interrupt.WindowSamples)
	s.detector = bargein.NewDetector(meter, cfg.Interrupt.Threshold,
		s.sounding.Load, s.scheduler.EmergencyStop)
	s.detector.OnBargeIn = s.onBargeIn

	return s
}

// Start opens the output device, connects to the service and begins the
// capture and playback loops.
func (s *Session) Start() error {
	if err := s.sink.Open(s.cfg.Audio.InboundRate); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}

	s.client = client.NewClient(client.Config{
		ServerAddr: s.cfg.Session.ServerAddr,
		SessionID:  uuid.New().String(),
		Name:       s.cfg.Session.Name,
		InputRate:  s.cfg.Audio.OutboundRate,
		OutputRate: s.cfg.Audio.InboundRate,
	})
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	s.connected.Store(true)

	if err := s.device.Start(); err != nil {
		s.client.Close()
		return fmt.Errorf("capture unavailable: %w", err)
	}

	s.wg.Add(3)
	go s.captureLoop()
	go s.playbackLoop()
	go s.watchErrors()

	if s.OnStatus != nil {
		s.wg.Add(1)
		go s.statusLoop()
	}

	log.Printf("session: started against %s", s.cfg.Session.ServerAddr)
	return nil
}

// Stop tears the session down.
func (s *Session) Stop() {
	s.cancel()
	s.device.Stop()
	s.scheduler.Stop()
	if s.client != nil {
		s.client.Close()
	}
	s.sink.Close()
	s.connected.Store(false)
	s.wg.Wait()
	log.Printf("session: stopped")
}

// Sounding reports whether remote playback is currently audible.
func (s *Session) Sounding() bool {
	return s.sounding.Load()
}

// Level reports the instantaneous capture loudness in [0, 100].
func (s *Session) Level() float64 {
	return s.detector.Level()
}

// captureLoop drives the outbound direction: raw blocks feed the barge-in
// detector and the chunk encoder. The encoder and the interruption decision
// run here, off the real-time capture callback.
func (s *Session) captureLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case block, ok := <-s.device.Blocks():
			if !ok {
				return
			}
			s.detector.Process(block)

			for _, chunk := range s.encoder.Push(block) {
				s.encoded.Add(1)
				if s.met != nil {
					s.met.ChunksEncoded.Inc()
					s.met.Level.Set(s.detector.Level())
				}
				if err := s.client.SendChunk(chunk); err != nil {
					log.Printf("session: send failed: %v", err)
					if s.met != nil {
						s.met.SendErrors.Inc()
					}
					continue
				}
				if s.met != nil {
					s.met.ChunksSent.Inc()
				}
			}
		}
	}
}

// playbackLoop drives the inbound direction: chunks arrive in order, are
// decoded and handed to the scheduler. A malformed chunk is dropped and the
// stream continues; only the audio it carried is lost.
func (s *Session) playbackLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case chunk, ok := <-s.client.Chunks():
			if !ok {
				return
			}
			s.received.Add(1)
			if s.met != nil {
				s.met.ChunksReceived.Inc()
			}

			buf, err := s.decoder.Decode(chunk)
			if err != nil {
				log.Printf("session: dropping malformed chunk: %v", err)
				s.dropped.Add(1)
				if s.met != nil {
					s.met.ChunksDropped.Inc()
				}
				continue
			}

			s.scheduler.Enqueue(buf)
			if s.met != nil {
				s.met.BuffersScheduled.Inc()
				s.met.QueueDepth.Set(float64(s.scheduler.QueueLen()))
			}
		}
	}
}

// watchErrors surfaces device and transport faults. Both are fatal to their
// direction and are not retried here; the owning application re-acquires.
func (s *Session) watchErrors() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case err := <-s.device.Errors():
			log.Printf("session: capture fault: %v", err)
		case err := <-s.client.Errors():
			log.Printf("session: transport fault: %v", err)
			s.connected.Store(false)
		}
	}
}

// statusLoop pushes periodic snapshots to the observer.
func (s *Session) statusLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.OnStatus(Status{
				Connected:  s.connected.Load(),
				ServerAddr: s.cfg.Session.ServerAddr,
				State:      s.scheduler.State().String(),
				Sounding:   s.sounding.Load(),
				Level:      s.detector.Level(),
				Encoded:    s.encoded.Load(),
				Received:   s.received.Load(),
				Dropped:    s.dropped.Load(),
				Rebuffers:  s.rebuffers.Load(),
				BargeIns:   s.bargeIns.Load(),
			})
		}
	}
}

// onSounding tracks the audibility signal from the scheduler. Runs under
// the scheduler lock; it only flips atomics and gauges.
func (s *Session) onSounding(v bool) {
	s.sounding.Store(v)
	if s.met != nil {
		if v {
			s.met.Sounding.Set(1)
		} else {
			s.met.Sounding.Set(0)
		}
	}
}

// onStateChange counts rebuffer transitions.
func (s *Session) onStateChange(st playback.State) {
	if st == playback.StateRebuffering {
		s.rebuffers.Add(1)
		if s.met != nil {
			s.met.Rebuffers.Inc()
		}
	}
}

// onBargeIn notifies the service after a local interruption. The local stop
// has already happened; the notice only tells the service to quit
// generating, so a slow write must not stall the capture loop.
func (s *Session) onBargeIn() {
	s.bargeIns.Add(1)
	if s.met != nil {
		s.met.BargeIns.Inc()
	}
	go func() {
		if err := s.client.SendInterrupt("local speech"); err != nil {
			log.Printf("session: interrupt notice failed: %v", err)
		}
	}()
}
