package statusfeed

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/andrescamacho/processor-go/internal/application/common"
	appProcessing "github.com/andrescamacho/processor-go/internal/application/processing"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// Message is one frame sent to feed viewers
type Message struct {
	Type   string                    `json:"type"`
	Report *processing.InspectReport `json:"report,omitempty"`
	Event  *appProcessing.Event      `json:"event,omitempty"`
}

const (
	MessageStatus = "status"
	MessageEvent  = "event"
)

// Hub fans status reports and lifecycle events out to every connected viewer.
// New viewers first receive the latest report of every unit.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.Mutex
	latest  map[string][]byte
	dropped int
	logger  common.RunLogger
}

// NewHub creates a hub; Run must be started before clients connect
func NewHub(logger common.RunLogger) *Hub {
	if logger == nil {
		logger = common.LoggerFromContext(context.Background())
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		latest:     make(map[string][]byte),
		logger:     logger,
	}
}

// Run handles client registration and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Log("INFO", "[Feed] Hub shutting down", nil)
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			for _, frame := range h.latestFrames() {
				select {
				case client.send <- frame:
				default:
				}
			}
			h.mu.Unlock()
			h.logger.Log("INFO", "[Feed] Viewer connected", nil)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Log("INFO", "[Feed] Viewer disconnected", nil)
			}
			h.mu.Unlock()
		case frame := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// Slow viewers are dropped rather than stalling the simulation
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// join registers a client unless the hub has stopped
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters a client unless the hub has stopped
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// latestFrames returns cached reports in unit order. Must be called with mu held.
func (h *Hub) latestFrames() [][]byte {
	ids := make([]string, 0, len(h.latest))
	for id := range h.latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	frames := make([][]byte, 0, len(ids))
	for _, id := range ids {
		frames = append(frames, h.latest[id])
	}
	return frames
}

// Broadcast implements StatusBroadcaster. It never blocks the caller.
func (h *Hub) Broadcast(report processing.InspectReport) {
	frame, err := json.Marshal(Message{Type: MessageStatus, Report: &report})
	if err != nil {
		h.logger.Log("ERROR", "[Feed] Failed to encode status report: "+err.Error(), nil)
		return
	}
	h.mu.Lock()
	h.latest[report.UnitID] = frame
	h.mu.Unlock()
	h.enqueue(frame)
}

// Publish implements EventPublisher so viewers also see lifecycle events
func (h *Hub) Publish(_ context.Context, event appProcessing.Event) error {
	frame, err := json.Marshal(Message{Type: MessageEvent, Event: &event})
	if err != nil {
		return err
	}
	if event.Type == appProcessing.EventUnitDespawned {
		h.mu.Lock()
		delete(h.latest, event.UnitID)
		h.mu.Unlock()
	}
	h.enqueue(frame)
	return nil
}

func (h *Hub) enqueue(frame []byte) {
	select {
	case h.broadcast <- frame:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
	}
}

// Dropped returns how many frames were discarded because the hub was saturated
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Viewers returns the number of connected clients
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var (
	_ appProcessing.StatusBroadcaster = (*Hub)(nil)
	_ appProcessing.EventPublisher    = (*Hub)(nil)
)
