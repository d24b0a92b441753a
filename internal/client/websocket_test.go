// ABOUTME: Tests for the WebSocket transport client
// ABOUTME: Tests handshake, chunk send/receive and interrupt notification
package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Talkwire-Protocol/talkwire-go/internal/protocol"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// fakeService upgrades, acknowledges the handshake and echoes every
// audio/input back as audio/output.
func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		var hello protocol.Message
		if err := conn.ReadJSON(&hello); err != nil {
			return
		}
		if hello.Type != protocol.TypeSessionHello {
			t.Errorf("expected session/hello, got %s", hello.Type)
			return
		}
		conn.WriteJSON(protocol.Message{Type: protocol.TypeSessionReady})

		for {
			var msg protocol.Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == protocol.TypeAudioInput {
				conn.WriteJSON(protocol.Message{
					Type:    protocol.TypeAudioOutput,
					Payload: msg.Payload,
				})
			}
		}
	}))
}

func dialTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := NewClient(Config{
		ServerAddr: strings.TrimPrefix(srv.URL, "http://"),
		SessionID:  "test-session",
		Name:       "test",
		InputRate:  16000,
		OutputRate: 24000,
	})
	if err := c.Connect(); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	return c
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{ServerAddr: "localhost:9"})
	if c.config.Path != "/talkwire" {
		t.Errorf("expected default path /talkwire, got %s", c.config.Path)
	}
	if c.config.Version != 1 {
		t.Errorf("expected default version 1, got %d", c.config.Version)
	}
}

func TestConnectAndEcho(t *testing.T) {
	srv := fakeService(t)
	defer srv.Close()

	c := dialTestClient(t, srv)
	defer c.Close()

	sent := audio.Chunk{Payload: "AAAA", SampleRate: 16000, Direction: audio.Outbound}
	if err := c.SendChunk(sent); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	select {
	case got := <-c.Chunks():
		if got.Payload != sent.Payload {
			t.Errorf("payload = %q, want %q", got.Payload, sent.Payload)
		}
		if got.SampleRate != 16000 {
			t.Errorf("sample rate = %d, want 16000", got.SampleRate)
		}
		if got.Direction != audio.Inbound {
			t.Error("expected inbound direction on received chunk")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for echoed chunk")
	}
}

func TestSendInterrupt(t *testing.T) {
	received := make(chan protocol.Message, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var hello protocol.Message
		conn.ReadJSON(&hello)
		conn.WriteJSON(protocol.Message{Type: protocol.TypeSessionReady})

		var msg protocol.Message
		if err := conn.ReadJSON(&msg); err == nil {
			received <- msg
		}
	}))
	defer srv.Close()

	c := dialTestClient(t, srv)
	defer c.Close()

	if err := c.SendInterrupt("barge-in"); err != nil {
		t.Fatalf("interrupt failed: %v", err)
	}

	select {
	case msg := <-received:
		if msg.Type != protocol.TypeInterrupt {
			t.Errorf("message type = %s, want %s", msg.Type, protocol.TypeInterrupt)
		}
		var in protocol.Interrupt
		if err := json.Unmarshal(msg.Payload, &in); err != nil {
			t.Fatalf("payload unmarshal failed: %v", err)
		}
		if in.Reason != "barge-in" {
			t.Errorf("reason = %q, want barge-in", in.Reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for interrupt message")
	}
}

func TestSendAfterClose(t *testing.T) {
	srv := fakeService(t)
	defer srv.Close()

	c := dialTestClient(t, srv)
	c.Close()

	if err := c.SendChunk(audio.Chunk{Payload: "AAAA"}); err == nil {
		t.Error("expected error sending on closed client")
	}
}
