package registry

// Unknown is the identity reported for connections that never sent a join.
// Events from such connections still route, carrying this sentinel as sender.
const Unknown = "unknown"

// Registry maps live connection IDs to display names and is the source of
// truth for who is online. Names are not unique; two connections may bind
// the same one. The registry is not safe for concurrent use on its own --
// the router serializes all access behind its lock.
type Registry struct {
	names map[string]string
	order []string
}

func New() *Registry {
	return &Registry{
		names: make(map[string]string),
	}
}

// Bind associates a display name with a connection. Rebinding overwrites the
// name but keeps the connection's original position in bind order.
func (r *Registry) Bind(connID, name string) {
	if _, ok := r.names[connID]; !ok {
		r.order = append(r.order, connID)
	}
	r.names[connID] = name
}

// Unbind removes the connection's identity. No-op if it was never bound.
func (r *Registry) Unbind(connID string) {
	if _, ok := r.names[connID]; !ok {
		return
	}
	delete(r.names, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Bound reports whether the connection has an identity.
func (r *Registry) Bound(connID string) bool {
	_, ok := r.names[connID]
	return ok
}

// IdentityOf returns the connection's display name, or Unknown if it has
// none.
func (r *Registry) IdentityOf(connID string) string {
	if name, ok := r.names[connID]; ok {
		return name
	}
	return Unknown
}

// FindByIdentity returns the first connection bound to name, in bind order.
// With duplicate names this picks the earliest-bound one; callers must
// tolerate not reaching the rest.
func (r *Registry) FindByIdentity(name string) (string, bool) {
	for _, id := range r.order {
		if r.names[id] == name {
			return id, true
		}
	}
	return "", false
}

// Online returns every bound display name in bind order, duplicates
// included.
func (r *Registry) Online() []string {
	online := make([]string, 0, len(r.order))
	for _, id := range r.order {
		online = append(online, r.names[id])
	}
	return online
}
