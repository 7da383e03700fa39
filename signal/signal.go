package signal

// Dispatch is strictly synchronous and single-threaded: Send invokes
// every subscriber in registration order on the caller's goroutine, and
// a subscriber panic propagates out of Send rather than being
// recovered. The graph engine this package serves never executes
// concurrently, so there is nothing to protect a subscriber against,
// and swallowing a panic would hide a programmer error in code whose
// entire purpose is observability.

// Signal is a named channel of subscribers sharing one argument type.
type Signal[A any] struct {
	name        string
	subscribers []func(A)
}

// New creates a named, empty signal.
func New[A any](name string) *Signal[A] {
	return &Signal[A]{name: name}
}

// Name returns the signal's name.
func (s *Signal[A]) Name() string {
	return s.name
}

// Subscribe registers fn to be called on every future Send, and returns
// a token that can be passed to Unsubscribe.
func (s *Signal[A]) Subscribe(fn func(A)) int {
	s.subscribers = append(s.subscribers, fn)
	return len(s.subscribers) - 1
}

// Unsubscribe removes the subscriber registered with the given token.
// It is a no-op if the token is out of range or already removed.
func (s *Signal[A]) Unsubscribe(token int) {
	if token < 0 || token >= len(s.subscribers) {
		return
	}
	s.subscribers[token] = nil
}

// Send invokes every live subscriber, in registration order, with args.
func (s *Signal[A]) Send(args A) {
	for _, fn := range s.subscribers {
		if fn == nil {
			continue
		}
		fn(args)
	}
}

// Len reports the number of subscriber slots, including unsubscribed
// (nil) ones. Useful mainly for tests.
func (s *Signal[A]) Len() int {
	return len(s.subscribers)
}
