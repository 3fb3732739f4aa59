package broadcast

import (
	"errors"
	"sync"
)

var (
	ErrSlowConsumer = errors.New("slow consumer")
	ErrClosed       = errors.New("subscriber closed")
)

type Subscriber interface {
	ID() string
	// Send must not block. An error means the event was not delivered.
	Send(*Event) error
}

// Mailbox is a Subscriber backed by a bounded channel, drained by the connection's writer.
// A full mailbox is closed instead of silently losing an event.
type Mailbox struct {
	id        string
	events    chan *Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewMailbox(id string, size int) *Mailbox {
	if size < 1 {
		size = 1
	}

	return &Mailbox{
		id:     id,
		events: make(chan *Event, size),
		done:   make(chan struct{}),
	}
}

func (m *Mailbox) ID() string {
	return m.id
}

func (m *Mailbox) Send(event *Event) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}

	select {
	case m.events <- event:
		return nil
	default:
		m.Close()
		return ErrSlowConsumer
	}
}

func (m *Mailbox) Events() <-chan *Event {
	return m.events
}

// Done is closed once the mailbox stops accepting events.
func (m *Mailbox) Done() <-chan struct{} {
	return m.done
}

func (m *Mailbox) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}
