package rooms

// Directory holds the fixed catalog of joinable rooms and the member set of
// each. A connection occupies at most one room at a time; joining a new room
// implicitly leaves the previous one. Like the registry, the directory is
// not internally locked -- the router serializes access.
type Directory struct {
	catalog []string
	members map[string]map[string]struct{}
	current map[string]string
}

// New builds a directory from the configured room names. The catalog is
// fixed for the lifetime of the directory.
func New(catalog []string) *Directory {
	d := &Directory{
		catalog: append([]string(nil), catalog...),
		members: make(map[string]map[string]struct{}, len(catalog)),
		current: make(map[string]string),
	}
	for _, name := range d.catalog {
		if _, ok := d.members[name]; !ok {
			d.members[name] = make(map[string]struct{})
		}
	}
	return d
}

// Catalog returns the room names in configured order.
func (d *Directory) Catalog() []string {
	return append([]string(nil), d.catalog...)
}

// Exists reports whether name is in the catalog.
func (d *Directory) Exists(name string) bool {
	_, ok := d.members[name]
	return ok
}

// Join moves the connection into room, leaving its current room if any.
// It returns the room that was left, and ok=false with no state change when
// room is not in the catalog.
func (d *Directory) Join(connID, room string) (previous string, ok bool) {
	if !d.Exists(room) {
		return "", false
	}
	previous, _ = d.Leave(connID)
	d.members[room][connID] = struct{}{}
	d.current[connID] = room
	return previous, true
}

// Leave removes the connection from its current room, reporting which room
// it left. No-op if the connection is in no room.
func (d *Directory) Leave(connID string) (string, bool) {
	room, ok := d.current[connID]
	if !ok {
		return "", false
	}
	delete(d.members[room], connID)
	delete(d.current, connID)
	return room, true
}

// MembersOf returns the connections currently in room. Nil for rooms outside
// the catalog.
func (d *Directory) MembersOf(room string) []string {
	set, ok := d.members[room]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// CurrentRoomOf returns the room the connection occupies, if any.
func (d *Directory) CurrentRoomOf(connID string) (string, bool) {
	room, ok := d.current[connID]
	return room, ok
}
