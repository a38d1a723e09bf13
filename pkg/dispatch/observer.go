package dispatch

import "time"

// Observer receives a callback for every answered request.
type Observer interface {
	// OnDispatch is called after a response has been produced.
	OnDispatch(verb, resourceType string, code int, duration time.Duration)
}

// ObjectCounter is implemented by observers that also track the number of
// stored objects. It is called after every answered request.
type ObjectCounter interface {
	ObserveObjects(n int)
}

// NoopObserver is a no-op implementation of Observer for when metrics are disabled.
type NoopObserver struct{}

func (NoopObserver) OnDispatch(verb, resourceType string, code int, duration time.Duration) {}
