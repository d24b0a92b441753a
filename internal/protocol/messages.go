// ABOUTME: Session protocol message type definitions
// ABOUTME: Defines the JSON envelope and payloads exchanged with the remote service
package protocol

import "encoding/json"

// Message types.
const (
	TypeSessionHello = "session/hello"
	TypeSessionReady = "session/ready"
	TypeAudioInput   = "audio/input"
	TypeAudioOutput  = "audio/output"
	TypeInterrupt    = "session/interrupt"
	TypeSessionClose = "session/close"
)

// Message is the top-level wrapper for all session messages.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SessionHello is sent by the client to open a duplex session.
type SessionHello struct {
	SessionID  string `json:"session_id"`
	Name       string `json:"name"`
	Version    int    `json:"version"`
	InputRate  int    `json:"input_rate"`  // rate of audio the client sends
	OutputRate int    `json:"output_rate"` // rate of audio the client accepts
}

// SessionReady is the service's response to session/hello.
type SessionReady struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name,omitempty"`
}

// Audio carries one encoded chunk in either direction.
type Audio struct {
	Data       string `json:"data"` // base64 over little-endian int16 PCM
	SampleRate int    `json:"sample_rate"`
}

// Interrupt tells the service the local participant barged in; the service
// stops generating and discards any queued response audio.
type Interrupt struct {
	Reason string `json:"reason,omitempty"`
}
