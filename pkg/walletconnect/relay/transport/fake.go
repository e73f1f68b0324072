package transport

import (
	"context"
	"sync"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/relay"
)

// Fake is an in-memory Socket used by the interactor's own tests — no
// real network dial, just channels the test can drive directly. Like
// the real WSSocket, each Connect gets a fresh events channel.
type Fake struct {
	Sent      []*relay.Frame
	Pings     int
	Texts     []string
	closed    bool
	closeCode int

	mu     sync.Mutex
	events chan Event
}

// NewFake returns a ready-to-use Fake socket.
func NewFake() *Fake {
	return &Fake{events: make(chan Event, 64)}
}

func (f *Fake) Connect(ctx context.Context) error {
	f.mu.Lock()
	f.events = make(chan Event, 64)
	f.mu.Unlock()
	return nil
}

func (f *Fake) WriteFrame(frame *relay.Frame) error {
	f.Sent = append(f.Sent, frame)
	return nil
}

func (f *Fake) WriteText(s string) error {
	f.Texts = append(f.Texts, s)
	return nil
}

func (f *Fake) Ping() error {
	f.Pings++
	return nil
}

// Close records the close and, like the real read loop when the
// connection drops, delivers an EventClosed with the given code.
func (f *Fake) Close(code int) error {
	f.closed = true
	f.closeCode = code
	f.ch() <- Event{Kind: EventClosed, CloseCode: code}
	return nil
}

func (f *Fake) Events() <-chan Event { return f.ch() }

func (f *Fake) ch() chan Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events
}

// Closed reports whether Close was called, and with what code.
func (f *Fake) Closed() (bool, int) { return f.closed, f.closeCode }

// Deliver pushes an inbound frame onto the event channel, as the real
// read loop would after the relay sends it.
func (f *Fake) Deliver(frame *relay.Frame) {
	f.ch() <- Event{Kind: EventFrame, Frame: frame}
}

// DeliverPingText simulates the relay's historical "ping" text frame.
func (f *Fake) DeliverPingText() {
	f.ch() <- Event{Kind: EventPingText}
}

// DeliverError simulates a malformed inbound message the read loop
// could not decode.
func (f *Fake) DeliverError(err error) {
	f.ch() <- Event{Kind: EventError, Err: err}
}

// DeliverClosed simulates the socket closing, with the given code.
func (f *Fake) DeliverClosed(code int, err error) {
	f.ch() <- Event{Kind: EventClosed, Err: err, CloseCode: code}
}
