// ABOUTME: Buffered playback scheduler maintaining a gap-free stream of discrete buffers
// ABOUTME: Owns the playout queue, the schedule cursor and the barge-in stop path
package playback

import (
	"log"
	"sync"
	"time"

	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio/output"
)

// State is the scheduler's buffering state.
type State int

const (
	// StateIdle means no stream is in progress.
	StateIdle State = iota
	// StateBuffering means buffers are accumulating before first playout.
	StateBuffering
	// StatePlaying means buffers are being committed to the sink.
	StatePlaying
	// StateRebuffering means arrivals fell behind and scheduling is paused
	// until the queue recovers. Already-scheduled buffers keep sounding.
	StateRebuffering
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuffering:
		return "buffering"
	case StatePlaying:
		return "playing"
	case StateRebuffering:
		return "rebuffering"
	default:
		return "unknown"
	}
}

// Defaults. Tuned for ~100ms inbound buffers: pre-buffering absorbs the
// arrival jitter of the first few chunks at the cost of ~400ms fixed latency.
const (
	DefaultPreBufferCount = 4
	DefaultMinBufferCount = 3
	DefaultLookAheadCount = 2
	DefaultSafetyMargin   = 100 * time.Millisecond
)

// Config holds scheduler tuning and observer hooks.
type Config struct {
	// PreBufferCount is how many buffers must queue before playout begins.
	PreBufferCount int

	// MinBufferCount is the low-water mark: when the queue falls below it
	// right after a dequeue, scheduling pauses until it recovers.
	MinBufferCount int

	// LookAheadCount is how many buffers may be scheduled ahead of their
	// start time, so a briefly late arrival never opens an audible gap.
	LookAheadCount int

	// SafetyMargin is added to the sink clock when starting a fresh stream,
	// giving the first buffer time to reach the device.
	SafetyMargin time.Duration

	// OnStateChange, if set, is invoked on every state transition. Called
	// with the scheduler lock held; it must not call back into the Scheduler.
	OnStateChange func(State)

	// OnSounding, if set, is invoked when the in-flight set becomes
	// non-empty (true) or empty (false). Same re-entrancy rule applies.
	OnSounding func(bool)
}

// Stats tracks scheduler counters.
type Stats struct {
	Enqueued  int64
	Scheduled int64
	Rebuffers int64
	Stops     int64
}

// inflight is one buffer committed to the sink but not yet retired.
type inflight struct {
	playout output.Playout
	start   time.Time
	end     time.Time
}

// Scheduler owns the ordered queue of decoded buffers and decides exactly
// when each one begins sounding. All mutable state lives behind one mutex;
// Enqueue and EmergencyStop are the only external entry points that mutate
// it. The lock is never held across a blocking call.
type Scheduler struct {
	cfg  Config
	sink output.Sink

	mu       sync.Mutex
	state    State
	queue    []audio.Buffer
	inflight []*inflight
	nextDue  time.Time // zero means unset
	gen      uint64    // bumped on stop; stale completions check it
	stats    Stats
}

// NewScheduler creates a scheduler committing buffers to the given sink.
func NewScheduler(sink output.Sink, cfg Config) *Scheduler {
	if cfg.PreBufferCount <= 0 {
		cfg.PreBufferCount = DefaultPreBufferCount
	}
	if cfg.MinBufferCount <= 0 {
		cfg.MinBufferCount = DefaultMinBufferCount
	}
	if cfg.LookAheadCount <= 0 {
		cfg.LookAheadCount = DefaultLookAheadCount
	}
	if cfg.SafetyMargin <= 0 {
		cfg.SafetyMargin = DefaultSafetyMargin
	}

	return &Scheduler{
		cfg:   cfg,
		sink:  sink,
		state: StateIdle,
	}
}

// Enqueue appends a buffer to the playout queue and advances the state
// machine. Buffers play out in exactly the order they are enqueued.
func (s *Scheduler) Enqueue(buf audio.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		s.nextDue = time.Time{}
		s.setState(StateBuffering)
	}

	s.queue = append(s.queue, buf)
	s.stats.Enqueued++

	switch s.state {
	case StateBuffering:
		if len(s.queue) >= s.cfg.PreBufferCount {
			s.setState(StatePlaying)
		}
	case StateRebuffering:
		if len(s.queue) >= s.cfg.MinBufferCount {
			s.setState(StatePlaying)
		}
	}

	s.schedule()
}

// EmergencyStop synchronously halts every in-flight buffer, clears the queue
// and returns to idle. It deterministically wins over a concurrent schedule
// pass: nothing enqueued or scheduled before the stop survives it.
func (s *Scheduler) EmergencyStop() {
	s.mu.Lock()
	s.gen++
	stopped := s.inflight
	wasSounding := len(stopped) > 0
	s.inflight = nil
	s.queue = nil
	s.nextDue = time.Time{}
	s.stats.Stops++
	s.setState(StateIdle)
	if wasSounding && s.cfg.OnSounding != nil {
		s.cfg.OnSounding(false)
	}
	s.mu.Unlock()

	// Halting the device playouts happens outside the lock; the generation
	// bump above already guarantees their completions are ignored.
	for _, f := range stopped {
		f.playout.Stop()
	}
}

// Stop is an explicit stop. It shares the cancellation path.
func (s *Scheduler) Stop() {
	s.EmergencyStop()
}

// State returns the current buffering state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Sounding reports whether any buffer is currently in flight.
func (s *Scheduler) Sounding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight) > 0
}

// QueueLen returns the number of buffers awaiting scheduling.
func (s *Scheduler) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// schedule commits queued buffers to the sink. Caller holds s.mu.
//
// While playing, and while fewer than LookAheadCount scheduled buffers have
// yet to start, the head of the queue is dequeued and committed to begin
// exactly at the schedule cursor, which then advances by the buffer's
// duration. The zero-gap invariant lives entirely in this loop.
func (s *Scheduler) schedule() {
	if s.state != StatePlaying {
		return
	}

	now := s.sink.Now()
	for len(s.queue) > 0 && s.pendingStarts(now) < s.cfg.LookAheadCount {
		buf := s.queue[0]
		s.queue = s.queue[1:]

		if s.nextDue.IsZero() || s.nextDue.Before(now) {
			// Fresh stream, or recovery after a gap: the cursor restarts
			// a safety margin ahead of the device clock.
			s.nextDue = now.Add(s.cfg.SafetyMargin)
		}

		playout, err := s.sink.PlayAt(buf.Samples, s.nextDue)
		if err != nil {
			// Device fault: fatal to the playback direction. Drop the
			// buffer and leave re-acquisition to the owning application.
			log.Printf("playback: schedule failed: %v", err)
			continue
		}

		entry := &inflight{
			playout: playout,
			start:   s.nextDue,
			end:     s.nextDue.Add(buf.Duration()),
		}
		wasSilent := len(s.inflight) == 0
		s.inflight = append(s.inflight, entry)
		s.nextDue = entry.end
		s.stats.Scheduled++

		if wasSilent && s.cfg.OnSounding != nil {
			s.cfg.OnSounding(true)
		}
		go s.watch(entry, s.gen)

		if len(s.queue) < s.cfg.MinBufferCount {
			// Arrivals have fallen behind consumption. Pause scheduling;
			// buffers already committed keep the stream sounding.
			s.setState(StateRebuffering)
			s.stats.Rebuffers++
			return
		}
	}
}

// pendingStarts counts in-flight buffers whose start time is still ahead of
// the sink clock. Caller holds s.mu.
func (s *Scheduler) pendingStarts(now time.Time) int {
	n := 0
	for _, f := range s.inflight {
		if f.start.After(now) {
			n++
		}
	}
	return n
}

// watch retires one in-flight entry when its playout completes. A stale
// generation means a stop cleared the stream first and the completion is
// ignored.
func (s *Scheduler) watch(entry *inflight, gen uint64) {
	<-entry.playout.Done()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return
	}

	for i, f := range s.inflight {
		if f == entry {
			s.inflight = append(s.inflight[:i], s.inflight[i+1:]...)
			break
		}
	}
	if len(s.inflight) == 0 && s.cfg.OnSounding != nil {
		s.cfg.OnSounding(false)
	}

	s.schedule()
}

// setState transitions the state machine. Caller holds s.mu.
func (s *Scheduler) setState(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	log.Printf("playback: %s -> %s (queued=%d, inflight=%d)", prev, next, len(s.queue), len(s.inflight))
	if s.cfg.OnStateChange != nil {
		s.cfg.OnStateChange(next)
	}
}
