package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gridview/internal/grid"
)

// notificationsMsg carries store notifications into the update loop.
type notificationsMsg []grid.Notification

// mailbox hands store notifications from fetch goroutines to the Bubble Tea
// update goroutine, which is the only one allowed to touch the component.
type mailbox struct {
	mu     sync.Mutex
	queue  []grid.Notification
	signal chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{signal: make(chan struct{}, 1)}
}

// Post queues n. It never blocks.
func (b *mailbox) Post(n grid.Notification) {
	b.mu.Lock()
	b.queue = append(b.queue, n)
	b.mu.Unlock()
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

func (b *mailbox) drain() []grid.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}

// wait returns a command that blocks until something is posted and then
// delivers everything queued so far.
func (b *mailbox) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-b.signal:
			}
			if batch := b.drain(); len(batch) > 0 {
				return notificationsMsg(batch)
			}
		}
	}
}
