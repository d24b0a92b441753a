// ABOUTME: Tests for session protocol message types
// ABOUTME: Verifies JSON envelope round trips and field naming
package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSessionHelloEnvelope(t *testing.T) {
	payload, err := json.Marshal(SessionHello{
		SessionID:  "test-id",
		Name:       "Test Session",
		Version:    1,
		InputRate:  16000,
		OutputRate: 24000,
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	data, err := json.Marshal(Message{Type: TypeSessionHello, Payload: payload})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if decoded.Type != "session/hello" {
		t.Errorf("expected type session/hello, got %s", decoded.Type)
	}

	var hello SessionHello
	if err := json.Unmarshal(decoded.Payload, &hello); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if hello.InputRate != 16000 || hello.OutputRate != 24000 {
		t.Errorf("rates = %d/%d, want 16000/24000", hello.InputRate, hello.OutputRate)
	}
}

func TestAudioFieldNames(t *testing.T) {
	data, err := json.Marshal(Audio{Data: "AAAA", SampleRate: 24000})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	for _, field := range []string{`"data"`, `"sample_rate"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("marshaled audio missing %s: %s", field, data)
		}
	}
}

func TestInterruptOmitsEmptyReason(t *testing.T) {
	data, err := json.Marshal(Interrupt{})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if strings.Contains(string(data), "reason") {
		t.Errorf("empty reason should be omitted: %s", data)
	}
}

func TestUnknownTypePassthrough(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"type":"session/unknown","payload":{"x":1}}`), &msg); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if msg.Type != "session/unknown" {
		t.Errorf("expected type preserved, got %s", msg.Type)
	}
	if len(msg.Payload) == 0 {
		t.Error("expected raw payload preserved")
	}
}
