package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesEveryClient(t *testing.T) {
	s := New(logger.Nop())
	a := &client{userID: uuid.New(), events: make(chan Event, 1)}
	b := &client{userID: uuid.New(), events: make(chan Event, 1)}
	s.addClient(a)
	s.addClient(b)

	assert.Equal(t, 2, s.Broadcast(Event{Type: EventApplicationSubmitted}))
	assert.Equal(t, EventApplicationSubmitted, (<-a.events).Type)
	assert.Equal(t, EventApplicationSubmitted, (<-b.events).Type)

	s.removeClient(a)
	assert.Equal(t, 1, s.ClientCount())
}

func TestBroadcastDisconnectsSlowClient(t *testing.T) {
	s := New(logger.Nop())
	slow := &client{userID: uuid.New(), events: make(chan Event, 1)}
	fast := &client{userID: uuid.New(), events: make(chan Event, 4)}
	s.addClient(slow)
	s.addClient(fast)

	assert.Equal(t, 2, s.Broadcast(Event{Type: EventConsultationBooked}))
	assert.Equal(t, 1, s.Broadcast(Event{Type: EventConsultationBooked}))
	assert.Equal(t, 1, s.ClientCount())

	<-slow.events
	_, open := <-slow.events
	assert.False(t, open)
	assert.Len(t, fast.events, 2)
}

func TestCloseDisconnectsClients(t *testing.T) {
	s := New(logger.Nop())
	c := &client{userID: uuid.New(), events: make(chan Event, 1)}
	s.addClient(c)

	s.Close()

	_, open := <-c.events
	assert.False(t, open)
	assert.Equal(t, 0, s.ClientCount())
	s.removeClient(c)
}

func newStreamServer(t *testing.T, s *Service) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Next()
	}, s.Handler())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func openStream(t *testing.T, ctx context.Context, url string) *bufio.Scanner {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream"))
	return bufio.NewScanner(resp.Body)
}

func TestHandlerWritesKeepAliveComments(t *testing.T) {
	s := New(logger.Nop())
	s.keepAlive = 10 * time.Millisecond
	srv := newStreamServer(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	lines := openStream(t, ctx, srv.URL)

	sawKeepAlive := false
	for lines.Scan() {
		if lines.Text() == ": keepalive" {
			sawKeepAlive = true
			break
		}
	}
	assert.True(t, sawKeepAlive)
}

func TestHandlerStreamsBroadcastAndEndsOnClose(t *testing.T) {
	s := New(logger.Nop())
	s.keepAlive = time.Hour
	srv := newStreamServer(t, s)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	lines := openStream(t, ctx, srv.URL)

	require.Eventually(t, func() bool { return s.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	s.Broadcast(Event{Type: EventApplicationSubmitted, Message: "new"})

	sawEvent := false
	for lines.Scan() {
		if lines.Text() == "event:"+string(EventApplicationSubmitted) {
			sawEvent = true
			break
		}
	}
	require.True(t, sawEvent)

	s.Close()
	for lines.Scan() {
	}
	assert.NoError(t, lines.Err())
}
