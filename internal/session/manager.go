package session

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/ndrandal/price-simulator/internal/simulation"
	"github.com/ndrandal/price-simulator/internal/wire"
)

// Manager handles client registration and message fan-out.
type Manager struct {
	mu         sync.RWMutex
	clients    map[uint64]*Client
	bufferSize int

	revMu   sync.Mutex
	lastRev uint64 // highest state revision broadcast so far
}

// NewManager creates a session manager.
func NewManager(bufferSize int) *Manager {
	return &Manager{
		clients:    make(map[uint64]*Client),
		bufferSize: bufferSize,
	}
}

// Register adds a new client. Returns the client for further use.
func (m *Manager) Register(conn *websocket.Conn) *Client {
	c := m.add(NewClient(conn, m.bufferSize))
	log.Printf("client %d connected (%s)", c.ID, conn.RemoteAddr())
	return c
}

func (m *Manager) add(c *Client) *Client {
	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()
	return c
}

// Unregister removes a client.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	m.mu.Unlock()

	c.Close()
	log.Printf("client %d disconnected", c.ID)
}

// Publish is a controller listener: it broadcasts every change to all clients.
func (m *Manager) Publish(ch simulation.Change) {
	kind, ok := changeKinds[ch.Kind]
	if !ok {
		return
	}
	m.Broadcast(StateMessage(kind, ch.State))
}

// Broadcast sends msg to all clients, encoded once per format.
// State messages older than one already broadcast are skipped, since
// listeners may deliver concurrent changes out of order.
func (m *Manager) Broadcast(msg wire.Message) {
	if msg.Kind != wire.KindCheck && msg.Kind != wire.KindError && !m.advance(msg.Revision) {
		return
	}
	msg.Timestamp = wire.NanosFromMidnight()

	// Pre-encode for each format (lazy, only if needed)
	var jsonFrame, binaryFrame Frame
	var jsonOK, binaryOK bool
	var jsonOnce, binaryOnce sync.Once

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.clients {
		switch c.Format() {
		case FormatJSON:
			jsonOnce.Do(func() {
				jsonFrame, jsonOK = encode(&msg, FormatJSON)
			})
			if jsonOK {
				c.Send(jsonFrame)
			}

		case FormatBinary:
			binaryOnce.Do(func() {
				binaryFrame, binaryOK = encode(&msg, FormatBinary)
			})
			if binaryOK {
				c.Send(binaryFrame)
			}
		}
	}
}

// advance records rev as broadcast. It reports false for stale revisions.
func (m *Manager) advance(rev uint64) bool {
	m.revMu.Lock()
	defer m.revMu.Unlock()
	if rev != 0 && rev <= m.lastRev {
		return false
	}
	if rev > m.lastRev {
		m.lastRev = rev
	}
	return true
}

// SendToClient sends a message directly to one client (e.g. state on connect).
func (m *Manager) SendToClient(c *Client, msg wire.Message) bool {
	msg.Timestamp = wire.NanosFromMidnight()
	f, ok := encode(&msg, c.Format())
	if !ok {
		return false
	}
	return c.Send(f)
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Dropped returns the number of frames dropped across connected clients.
func (m *Manager) Dropped() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n uint64
	for _, c := range m.clients {
		n += atomic.LoadUint64(&c.Dropped)
	}
	return n
}

func encode(msg *wire.Message, f Format) (Frame, bool) {
	if f == FormatBinary {
		data := wire.EncodeBinary(msg)
		return Frame{Data: data, Binary: true}, data != nil
	}
	data, err := wire.EncodeJSON(msg)
	if err != nil {
		log.Printf("encode %s message: %v", msg.Kind, err)
		return Frame{}, false
	}
	return Frame{Data: data}, true
}
