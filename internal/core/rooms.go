package core

import "sync"

// roomIndex tracks which clients are joined to which room. It mirrors the
// transport's multicast groups: the hub loop is the only writer, while the
// query facade reads concurrently, hence the RWMutex.
type roomIndex struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func newRoomIndex() *roomIndex {
	return &roomIndex{rooms: make(map[string]map[*Client]struct{})}
}

// add joins c to room, creating the room on first member.
func (ri *roomIndex) add(room string, c *Client) {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	members, ok := ri.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		ri.rooms[room] = members
	}
	members[c] = struct{}{}
}

// remove drops c from room, deleting the room when it empties.
func (ri *roomIndex) remove(room string, c *Client) bool {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	members, ok := ri.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[c]; !ok {
		return false
	}
	delete(members, c)
	if len(members) == 0 {
		delete(ri.rooms, room)
	}
	return true
}

// removeAll drops c from every room and returns the rooms it left.
func (ri *roomIndex) removeAll(c *Client) []string {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	var left []string
	for name, members := range ri.rooms {
		if _, ok := members[c]; !ok {
			continue
		}
		delete(members, c)
		if len(members) == 0 {
			delete(ri.rooms, name)
		}
		left = append(left, name)
	}
	return left
}

// members returns the clients currently joined to room.
func (ri *roomIndex) members(room string) []*Client {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	set, ok := ri.rooms[room]
	if !ok {
		return nil
	}
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

// memberIDs returns the connection ids currently joined to room.
func (ri *roomIndex) memberIDs(room string) []string {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	set, ok := ri.rooms[room]
	if !ok {
		return []string{}
	}
	ids := make([]string, 0, len(set))
	for c := range set {
		ids = append(ids, c.ID)
	}
	return ids
}

// names returns every room with at least one member.
func (ri *roomIndex) names() []string {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	names := make([]string, 0, len(ri.rooms))
	for name := range ri.rooms {
		names = append(names, name)
	}
	return names
}
