// ABOUTME: Tests for the high-level Session API
// ABOUTME: Tests configuration defaults and validation
package talkwire

import (
	"testing"
)

func TestNewSession(t *testing.T) {
	s, err := NewSession(Config{
		ServerAddr: "localhost:8930",
		Name:       "test-session",
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if s.cfg.Session.Name != "test-session" {
		t.Errorf("expected name test-session, got %s", s.cfg.Session.Name)
	}
	s.Close()
}

func TestNewSessionRequiresAddr(t *testing.T) {
	if _, err := NewSession(Config{}); err == nil {
		t.Error("expected error for missing ServerAddr")
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s, err := NewSession(Config{ServerAddr: "localhost:8930"})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if s.cfg.Session.Name == "" {
		t.Error("expected default session name")
	}
	if s.cfg.Interrupt.Threshold != 22 {
		t.Errorf("expected default threshold 22, got %v", s.cfg.Interrupt.Threshold)
	}
}

func TestThresholdOverride(t *testing.T) {
	s, err := NewSession(Config{
		ServerAddr:         "localhost:8930",
		InterruptThreshold: 40,
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if s.cfg.Interrupt.Threshold != 40 {
		t.Errorf("expected threshold 40, got %v", s.cfg.Interrupt.Threshold)
	}
}

func TestSessionInitialState(t *testing.T) {
	s, err := NewSession(Config{ServerAddr: "localhost:8930"})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Close()

	if s.Sounding() {
		t.Error("expected silent before connecting")
	}
	if s.Level() != 0 {
		t.Errorf("expected level 0 before connecting, got %v", s.Level())
	}
}
