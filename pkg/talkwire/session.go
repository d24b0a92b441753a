// ABOUTME: High-level Session API for Talkwire voice streaming
// ABOUTME: Provides a simple interface for connecting and holding a duplex session
package talkwire

import (
	"fmt"

	"github.com/Talkwire-Protocol/talkwire-go/internal/app"
	"github.com/Talkwire-Protocol/talkwire-go/internal/config"
	"github.com/Talkwire-Protocol/talkwire-go/internal/version"
)

// Config holds session configuration.
type Config struct {
	// ServerAddr is the service address (host:port).
	ServerAddr string

	// Name is the display name for this session.
	Name string

	// InterruptThreshold is the capture loudness (0-100) above which
	// playback is cancelled while sounding (default: 22).
	InterruptThreshold float64

	// OnStatus is called periodically with a session snapshot.
	OnStatus func(Status)
}

// Status describes the current session state.
type Status struct {
	Connected bool
	State     string // "idle", "buffering", "playing", "rebuffering"
	Sounding  bool
	Level     float64
	Encoded   int64
	Received  int64
	Dropped   int64
	BargeIns  int64
}

// Session provides high-level duplex voice streaming against a Talkwire
// service.
type Session struct {
	cfg     *config.Config
	session *app.Session
}

// NewSession creates a session with the given configuration.
func NewSession(c Config) (*Session, error) {
	if c.ServerAddr == "" {
		return nil, fmt.Errorf("ServerAddr is required")
	}

	cfg := config.Default()
	cfg.Session.ServerAddr = c.ServerAddr
	if c.Name != "" {
		cfg.Session.Name = c.Name
	} else {
		cfg.Session.Name = version.Product
	}
	if c.InterruptThreshold > 0 {
		cfg.Interrupt.Threshold = c.InterruptThreshold
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg}
	s.session = app.New(cfg, nil, nil)
	if c.OnStatus != nil {
		onStatus := c.OnStatus
		s.session.OnStatus = func(st app.Status) {
			onStatus(Status{
				Connected: st.Connected,
				State:     st.State,
				Sounding:  st.Sounding,
				Level:     st.Level,
				Encoded:   st.Encoded,
				Received:  st.Received,
				Dropped:   st.Dropped,
				BargeIns:  st.BargeIns,
			})
		}
	}
	return s, nil
}

// Connect opens the audio devices and starts the duplex stream.
func (s *Session) Connect() error {
	return s.session.Start()
}

// Close ends the session and releases the audio devices.
func (s *Session) Close() error {
	s.session.Stop()
	return nil
}

// Sounding reports whether the service's audio is currently audible.
func (s *Session) Sounding() bool {
	return s.session.Sounding()
}

// Level reports the instantaneous microphone loudness in [0, 100].
func (s *Session) Level() float64 {
	return s.session.Level()
}
