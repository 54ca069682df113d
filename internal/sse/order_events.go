package sse

import (
	"context"
	"sync"

	"jastip-express/internal/models"
)

// OrderEventEmitter manages SSE connections and broadcasts order changes
// to dashboards watching a given event.
type OrderEventEmitter struct {
	// key: eventID, value: slice of client channels
	clients     map[string][]chan models.OrderChange
	clientMutex sync.RWMutex
}

func NewOrderEventEmitter() *OrderEventEmitter {
	return &OrderEventEmitter{
		clients: make(map[string][]chan models.OrderChange),
	}
}

// Subscribe adds a client to the order change feed for one event. The
// client is removed when ctx is cancelled (client disconnect). The
// returned channel is never closed; consumers must select on ctx.Done()
// to notice the disconnect.
func (e *OrderEventEmitter) Subscribe(ctx context.Context, eventID string) chan models.OrderChange {
	clientChan := make(chan models.OrderChange, 10)

	e.clientMutex.Lock()
	e.clients[eventID] = append(e.clients[eventID], clientChan)
	e.clientMutex.Unlock()

	go func() {
		<-ctx.Done()
		e.removeClient(eventID, clientChan)
	}()

	return clientChan
}

// Emit broadcasts an order change to every subscriber of its event.
func (e *OrderEventEmitter) Emit(change models.OrderChange) {
	e.clientMutex.RLock()
	clients := e.clients[change.EventID]
	e.clientMutex.RUnlock()

	for _, clientChan := range clients {
		// Non-blocking send so a slow client cannot stall the emitter
		select {
		case clientChan <- change:
		default:
		}
	}
}

// removeClient drops the channel from the fan-out map. It must not close
// the channel: Emit sends outside the lock, so a close here could race a
// concurrent send and panic the emitting request.
func (e *OrderEventEmitter) removeClient(eventID string, clientChan chan models.OrderChange) {
	e.clientMutex.Lock()
	defer e.clientMutex.Unlock()

	clients := e.clients[eventID]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[eventID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}

	if len(e.clients[eventID]) == 0 {
		delete(e.clients, eventID)
	}
}
