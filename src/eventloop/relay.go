package eventloop

// Relay pairs a value type with a handler that must only run on the UI
// loop. Post is the sole sanctioned way for a worker goroutine to affect
// UI state: the handler observes each posted value exactly once, inside
// the loop's own goroutine.
type Relay[T any] struct {
	loop    *Loop
	handler func(T)
}

func NewRelay[T any](loop *Loop, handler func(T)) *Relay[T] {
	return &Relay[T]{loop: loop, handler: handler}
}

// Post delivers v to the handler on the UI loop. Callable from any
// goroutine. Returns false if the loop has stopped and v was dropped.
func (r *Relay[T]) Post(v T) bool {
	return r.loop.Post(func() { r.handler(v) })
}
