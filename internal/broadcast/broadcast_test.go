package broadcast

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(m *Mailbox) []*Event {
	var events []*Event
	for {
		select {
		case e := <-m.Events():
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestMailboxSend(t *testing.T) {
	m := NewMailbox("a", 2)

	require.NoError(t, m.Send(NewEvent("one", nil)))
	require.NoError(t, m.Send(NewEvent("two", nil)))

	err := m.Send(NewEvent("three", nil))
	assert.ErrorIs(t, err, ErrSlowConsumer)

	select {
	case <-m.Done():
	default:
		t.Fatal("full mailbox must be closed")
	}

	assert.ErrorIs(t, m.Send(NewEvent("four", nil)), ErrClosed)

	events := drain(m)
	require.Len(t, events, 2)
	assert.Equal(t, "one", events[0].Type)
	assert.Equal(t, "two", events[1].Type)
}

func TestMailboxCloseIsIdempotent(t *testing.T) {
	m := NewMailbox("a", 0)
	m.Close()
	m.Close()
	assert.ErrorIs(t, m.Send(NewEvent("x", nil)), ErrClosed)
}

func TestGroupMembership(t *testing.T) {
	g := NewGroup(nil)

	assert.True(t, g.Add(NewMailbox("b", 1)))
	assert.True(t, g.Add(NewMailbox("a", 1)))
	assert.False(t, g.Add(NewMailbox("a", 1)))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"a", "b"}, g.IDs())

	assert.True(t, g.Remove("a"))
	assert.False(t, g.Remove("a"))
	assert.Equal(t, []string{"b"}, g.IDs())
}

func TestGroupPublishReachesEveryMember(t *testing.T) {
	g := NewGroup(nil)
	a := NewMailbox("a", 4)
	b := NewMailbox("b", 4)
	g.Add(a)
	g.Add(b)

	dropped := g.Publish(NewEvent("update_queue", []string{"x"}))
	assert.Empty(t, dropped)

	for _, m := range []*Mailbox{a, b} {
		events := drain(m)
		require.Len(t, events, 1)
		assert.Equal(t, "update_queue", events[0].Type)
	}
}

func TestGroupPublishDropsSlowConsumer(t *testing.T) {
	g := NewGroup(nil)
	fast := NewMailbox("fast", 8)
	slow := NewMailbox("slow", 1)
	g.Add(fast)
	g.Add(slow)

	assert.Empty(t, g.Publish(NewEvent("one", nil)))
	assert.Equal(t, []string{"slow"}, g.Publish(NewEvent("two", nil)))

	assert.Equal(t, []string{"fast"}, g.IDs())
	assert.Len(t, drain(fast), 2)

	// the slow consumer keeps what it accepted, without a gap
	events := drain(slow)
	require.Len(t, events, 1)
	assert.Equal(t, "one", events[0].Type)
}

func TestGroupPublishOrderUnderConcurrency(t *testing.T) {
	const (
		publishers = 8
		perPub     = 50
	)

	g := NewGroup(nil)
	members := make([]*Mailbox, 3)
	for i := range members {
		members[i] = NewMailbox(fmt.Sprintf("m%d", i), publishers*perPub)
		g.Add(members[i])
	}

	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perPub; i++ {
				g.Publish(NewEvent(fmt.Sprintf("%d-%d", p, i), nil))
			}
		}(p)
	}
	wg.Wait()

	reference := drain(members[0])
	require.Len(t, reference, publishers*perPub)
	for _, m := range members[1:] {
		assert.Equal(t, reference, drain(m), "every member must observe the same order")
	}
}
