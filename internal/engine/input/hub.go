package input

// Hub is a Target that a host feeds with Emit.
type Hub struct {
	listeners map[EventType]func(*Event)
}

// NewHub returns a hub with no listeners.
func NewHub() *Hub {
	return &Hub{listeners: make(map[EventType]func(*Event))}
}

func (h *Hub) AddListener(t EventType, fn func(*Event)) {
	h.listeners[t] = fn
}

func (h *Hub) RemoveListener(t EventType) {
	delete(h.listeners, t)
}

// Listening reports whether a listener is attached for t.
func (h *Hub) Listening(t EventType) bool {
	_, ok := h.listeners[t]
	return ok
}

// Emit delivers ev to the listener for its type. It reports whether one ran.
func (h *Hub) Emit(ev *Event) bool {
	fn, ok := h.listeners[ev.Type]
	if !ok {
		return false
	}
	fn(ev)
	return true
}
