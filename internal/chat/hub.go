package chat

import "sync"

// Hub is the process-wide registry of live websocket connections grouped by
// room. Joining a room here is a transport-level subscription only; access
// control happens before anything is written into a room.
type Hub struct {
	mu      sync.Mutex
	rooms   map[uint]map[*Client]bool
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[uint]map[*Client]bool),
		clients: make(map[*Client]bool),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true
}

// Join adds the connection to a room's broadcast group. Idempotent.
func (h *Hub) Join(roomID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[c] {
		return
	}

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}

	h.rooms[roomID][c] = true
}

// Broadcast delivers the payload to every connection currently in the room's
// group, best effort. A connection whose send buffer is full is dropped.
func (h *Hub) Broadcast(roomID uint, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var stale []*Client

	for c := range h.rooms[roomID] {
		select {
		case c.send <- payload:
		default:
			stale = append(stale, c)
		}
	}

	for _, c := range stale {
		h.removeLocked(c)
	}
}

// Send delivers a payload to a single connection, typically an ack or an
// error event back to the sender.
func (h *Hub) Send(c *Client, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[c] {
		return
	}

	select {
	case c.send <- payload:
	default:
		h.removeLocked(c)
	}
}

// Disconnect removes the connection from every group it joined and closes
// its send channel. Safe to call more than once.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c)
}

// RoomSize reports how many connections are subscribed to a room.
func (h *Hub) RoomSize(roomID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.rooms[roomID])
}

// removeLocked must be called with h.mu held. Membership is removed before
// the send channel is closed, so no concurrent broadcast can write to a
// closed channel.
func (h *Hub) removeLocked(c *Client) {
	if !h.clients[c] {
		return
	}

	delete(h.clients, c)

	for roomID, group := range h.rooms {
		delete(group, c)

		if len(group) == 0 {
			delete(h.rooms, roomID)
		}
	}

	close(c.send)
}
