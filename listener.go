package mqttclient

import "sync"

// PublishMessage is the inbound application message delivered to publish
// listeners, decoupled from the wire packet type.
type PublishMessage struct {
	Topic   string
	Payload []byte
	QoS     uint8
	Retain  bool
}

// PublishListenerFunc observes one inbound application message, or a decode
// error that did not come from the framing layer (the connection stays
// live in that case).
type PublishListenerFunc func(*PublishMessage, error)

// CloseListenerFunc fires exactly once when the connection ends: nil for a
// graceful close, non-nil for a fault.
type CloseListenerFunc func(error)

// listenerRegistry is a named fan-out of publish and close events. Mutation
// is lock-guarded; notification copies the relevant map to a slice under
// the lock and invokes listeners outside it, so a listener may unregister
// itself (or another listener) from within its own callback.
type listenerRegistry struct {
	mu      sync.Mutex
	publish map[string]PublishListenerFunc
	close   map[string]CloseListenerFunc
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{
		publish: make(map[string]PublishListenerFunc),
		close:   make(map[string]CloseListenerFunc),
	}
}

func (r *listenerRegistry) AddPublishListener(name string, fn PublishListenerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publish[name] = fn
}

func (r *listenerRegistry) RemovePublishListener(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.publish, name)
}

func (r *listenerRegistry) AddCloseListener(name string, fn CloseListenerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.close[name] = fn
}

func (r *listenerRegistry) RemoveCloseListener(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.close, name)
}

// NotifyPublish delivers msg (or err) to every registered publish listener,
// in the order inbound publishes arrive on the wire. Cross-listener order is
// unspecified; this implementation uses map iteration order.
func (r *listenerRegistry) NotifyPublish(msg *PublishMessage, err error) {
	r.mu.Lock()
	snapshot := make([]PublishListenerFunc, 0, len(r.publish))
	for _, fn := range r.publish {
		snapshot = append(snapshot, fn)
	}
	r.mu.Unlock()
	for _, fn := range snapshot {
		fn(msg, err)
	}
}

// NotifyClose delivers err (nil for graceful close) to every close listener.
// Called once per connection from Client.teardown, which already guards
// against firing twice for the same connection; the registry itself
// survives across Reconnect, so it must not suppress later connections'
// notifications.
func (r *listenerRegistry) NotifyClose(err error) {
	r.mu.Lock()
	snapshot := make([]CloseListenerFunc, 0, len(r.close))
	for _, fn := range r.close {
		snapshot = append(snapshot, fn)
	}
	r.mu.Unlock()
	for _, fn := range snapshot {
		fn(err)
	}
}
