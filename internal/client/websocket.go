// ABOUTME: WebSocket client for the duplex session transport
// ABOUTME: Handles connection, handshake and chunk message routing
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/Talkwire-Protocol/talkwire-go/internal/protocol"
	"github.com/Talkwire-Protocol/talkwire-go/pkg/audio"
	"github.com/gorilla/websocket"
)

// Config holds transport client configuration.
type Config struct {
	ServerAddr string // host:port
	Path       string // websocket path, default /talkwire
	SessionID  string
	Name       string
	Version    int
	InputRate  int
	OutputRate int
}

// Client is the duplex session transport. Outbound chunks are sent as
// audio/input messages; inbound audio/output messages surface on the Chunks
// channel in arrival order.
type Client struct {
	config Config
	conn   *websocket.Conn

	mu        sync.Mutex // guards conn writes and connected flag
	connected bool

	chunks chan audio.Chunk
	errs   chan error

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a transport client.
func NewClient(config Config) *Client {
	if config.Path == "" {
		config.Path = "/talkwire"
	}
	if config.Version == 0 {
		config.Version = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		config: config,
		chunks: make(chan audio.Chunk, 100),
		errs:   make(chan error, 1),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect establishes the WebSocket connection and performs the handshake.
func (c *Client) Connect() error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: c.config.Path}
	log.Printf("client: connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()
	return nil
}

// handshake opens the session and waits for the service to acknowledge.
func (c *Client) handshake() error {
	hello := protocol.SessionHello{
		SessionID:  c.config.SessionID,
		Name:       c.config.Name,
		Version:    c.config.Version,
		InputRate:  c.config.InputRate,
		OutputRate: c.config.OutputRate,
	}
	if err := c.send(protocol.TypeSessionHello, hello); err != nil {
		return fmt.Errorf("failed to send session/hello: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read session/ready: %w", err)
	}
	c.conn.SetReadDeadline(time.Time{})

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to parse session/ready: %w", err)
	}
	if msg.Type != protocol.TypeSessionReady {
		return fmt.Errorf("expected %s, got %s", protocol.TypeSessionReady, msg.Type)
	}

	log.Printf("client: session %s established", c.config.SessionID)
	return nil
}

// SendChunk forwards one outbound chunk to the service.
func (c *Client) SendChunk(chunk audio.Chunk) error {
	return c.send(protocol.TypeAudioInput, protocol.Audio{
		Data:       chunk.Payload,
		SampleRate: chunk.SampleRate,
	})
}

// SendInterrupt notifies the service of a local barge-in so it stops
// generating response audio.
func (c *Client) SendInterrupt(reason string) error {
	return c.send(protocol.TypeInterrupt, protocol.Interrupt{Reason: reason})
}

// Chunks returns the inbound chunk channel. Chunks arrive in the order the
// service sent them; no further ordering is assumed.
func (c *Client) Chunks() <-chan audio.Chunk {
	return c.chunks
}

// Errors returns the transport error channel.
func (c *Client) Errors() <-chan error {
	return c.errs
}

// Close tears the connection down.
func (c *Client) Close() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	c.connected = false
	return c.conn.Close()
}

// send marshals and writes one message. Writes are serialized; the capture
// loop and the barge-in path may both send concurrently.
func (c *Client) send(msgType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}
	msg := protocol.Message{Type: msgType, Payload: raw}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteJSON(msg)
}

// readMessages routes inbound messages until the connection closes.
func (c *Client) readMessages() {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case c.errs <- fmt.Errorf("read failed: %w", err):
			default:
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("client: dropping unparseable message: %v", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeAudioOutput:
			var a protocol.Audio
			if err := json.Unmarshal(msg.Payload, &a); err != nil {
				log.Printf("client: dropping malformed audio/output: %v", err)
				continue
			}
			chunk := audio.Chunk{
				Payload:    a.Data,
				SampleRate: a.SampleRate,
				Direction:  audio.Inbound,
			}
			select {
			case c.chunks <- chunk:
			case <-c.ctx.Done():
				return
			}

		case protocol.TypeSessionClose:
			log.Printf("client: session closed by service")
			select {
			case c.errs <- fmt.Errorf("session closed by service"):
			default:
			}
			return

		default:
			log.Printf("client: ignoring message type %q", msg.Type)
		}
	}
}
