package notify

import (
	"context"
	"errors"
)

// ErrConsumerBehind is returned when the channel buffer is full.
var ErrConsumerBehind = errors.New("notification consumer is behind")

// ChannelNotifier forwards notifications to an in-process consumer such as
// the TUI banner. It is always granted.
type ChannelNotifier struct {
	ch chan Notification
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelNotifier{ch: make(chan Notification, buffer)}
}

func (n *ChannelNotifier) C() <-chan Notification { return n.ch }

func (n *ChannelNotifier) Permission() Permission { return Granted }

func (n *ChannelNotifier) RequestPermission(context.Context) (Permission, error) {
	return Granted, nil
}

// Notify never blocks; it fails with ErrConsumerBehind when the buffer is full.
func (n *ChannelNotifier) Notify(ctx context.Context, note Notification) error {
	select {
	case n.ch <- note:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrConsumerBehind
	}
}
