package ws

import (
	"errors"
	"sync"
)

var ErrRoomNotFound = errors.New("room has no connected clients")

// RoomManager tracks connected clients per room code.
type RoomManager struct {
	rooms map[string]map[string]*Client // code -> client ID -> client
	mu    sync.RWMutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]map[string]*Client),
	}
}

func (rm *RoomManager) AddClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	clients, ok := rm.rooms[cl.RoomCode]
	if !ok {
		clients = make(map[string]*Client)
		rm.rooms[cl.RoomCode] = clients
	}
	clients[cl.ID] = cl
}

// RemoveClient drops cl and closes it. It reports whether cl was registered.
func (rm *RoomManager) RemoveClient(cl *Client) bool {
	rm.mu.Lock()
	clients, ok := rm.rooms[cl.RoomCode]
	_, exists := clients[cl.ID]
	if ok && exists {
		delete(clients, cl.ID)
		if len(clients) == 0 {
			delete(rm.rooms, cl.RoomCode)
		}
	}
	rm.mu.Unlock()

	cl.Close()
	return ok && exists
}

func (rm *RoomManager) clients(code string) []*Client {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	clients := rm.rooms[code]
	out := make([]*Client, 0, len(clients))
	for _, cl := range clients {
		out = append(out, cl)
	}
	return out
}

// BroadcastToRoom enqueues msg for every client of its room and returns
// how many clients dropped it because their buffer was full.
func (rm *RoomManager) BroadcastToRoom(msg *WSMessage) (int, error) {
	clients := rm.clients(msg.RoomCode)
	if len(clients) == 0 {
		return 0, ErrRoomNotFound
	}

	dropped := 0
	for _, cl := range clients {
		if cl.IsClosed() {
			continue
		}
		if !cl.Enqueue(msg) {
			dropped++
		}
	}
	return dropped, nil
}

// DisconnectRoom closes every client of code.
func (rm *RoomManager) DisconnectRoom(code string) int {
	rm.mu.Lock()
	clients := rm.rooms[code]
	delete(rm.rooms, code)
	rm.mu.Unlock()

	for _, cl := range clients {
		cl.Close()
	}
	return len(clients)
}

func (rm *RoomManager) DisconnectAll() int {
	rm.mu.Lock()
	rooms := rm.rooms
	rm.rooms = make(map[string]map[string]*Client)
	rm.mu.Unlock()

	n := 0
	for _, clients := range rooms {
		for _, cl := range clients {
			cl.Close()
			n++
		}
	}
	return n
}

func (rm *RoomManager) ClientCount(code string) int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms[code])
}
