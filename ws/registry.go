package ws

// Registry maps room IDs to live rooms. It is plain state with no
// locking: the manager's dispatch goroutine is the only code that touches
// it. Handing each Manager its own Registry keeps coordinators fully
// isolated, which the tests lean on.
type Registry struct {
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room for id, constructing a fresh one on first
// reference.
func (reg *Registry) GetOrCreate(id string) *Room {
	if room, ok := reg.rooms[id]; ok {
		return room
	}

	room := NewRoom(id)
	reg.rooms[id] = room

	return room
}

// Get returns the room for id, or nil if none exists.
func (reg *Registry) Get(id string) *Room {
	return reg.rooms[id]
}

// Remove deletes the room for id; a no-op if absent.
func (reg *Registry) Remove(id string) {
	delete(reg.rooms, id)
}

// Len reports how many rooms are live.
func (reg *Registry) Len() int {
	return len(reg.rooms)
}
