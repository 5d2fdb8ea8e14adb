package redis

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// Subscription is a live pub/sub registration. Messages is closed after Close.
type Subscription struct {
	in      <-chan *redis.Message
	out     chan []byte
	done    chan struct{}
	release func() error

	once     sync.Once
	closeErr error
}

func newSubscription(in <-chan *redis.Message, release func() error) *Subscription {
	return &Subscription{
		in:      in,
		out:     make(chan []byte, 16),
		done:    make(chan struct{}),
		release: release,
	}
}

func (s *Subscription) pump() {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-s.in:
			if !ok {
				return
			}
			select {
			case s.out <- []byte(msg.Payload):
			case <-s.done:
				return
			}
		}
	}
}

// Messages yields raw payloads in publish order.
func (s *Subscription) Messages() <-chan []byte {
	return s.out
}

// Close releases the server-side subscription. It is safe to call more than once.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		close(s.done)
		if s.release != nil {
			s.closeErr = s.release()
		}
	})
	return s.closeErr
}
