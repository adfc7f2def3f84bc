// Package sse streams admin activity (new applications, bookings) as
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType names an SSE event.
type EventType string

const (
	EventApplicationSubmitted EventType = "application_submitted"
	EventConsultationBooked   EventType = "consultation_booked"
)

const (
	clientBuffer      = 32
	keepAliveInterval = 20 * time.Second
	keepAliveComment  = ": keepalive\n\n"
)

// Event is an SSE payload.
type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
}

type client struct {
	userID uuid.UUID
	events chan Event
}

// Service fans events out to every connected admin.
type Service struct {
	mu        sync.RWMutex
	clients   map[*client]struct{}
	keepAlive time.Duration
	log       *logger.Logger
}

func New(log *logger.Logger) *Service {
	return &Service{clients: make(map[*client]struct{}), keepAlive: keepAliveInterval, log: log}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.events)
	}
}

// Broadcast sends event to every connected client and returns how many
// received it. A client whose buffer is full is disconnected.
func (s *Service) Broadcast(event Event) int {
	s.mu.RLock()
	delivered := 0
	var slow []*client
	for c := range s.clients {
		select {
		case c.events <- event:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range slow {
		s.log.Warn("sse client too slow, disconnecting", "userId", c.userID, "event", event.Type)
		s.removeClient(c)
	}
	return delivered
}

// ClientCount reports connected clients.
func (s *Service) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler streams events until the client goes away. It must run behind the
// admin middleware.
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := httpkit.MustGetIdentity(c)
		if identity == nil {
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)

		cl := &client{userID: identity.UserID(), events: make(chan Event, clientBuffer)}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"userId": cl.userID})
		c.Writer.Flush()

		ticker := time.NewTicker(s.keepAlive)
		defer ticker.Stop()

		gone := c.Request.Context().Done()
		for {
			select {
			case <-gone:
				return
			case <-ticker.C:
				if _, err := c.Writer.WriteString(keepAliveComment); err != nil {
					return
				}
				c.Writer.Flush()
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					continue
				}
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects every client.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		close(c.events)
	}
	s.clients = make(map[*client]struct{})
}
