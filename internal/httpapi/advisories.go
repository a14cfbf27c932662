package httpapi

import (
	"net/http"
	"sync"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/board"
)

// AdvisoryHub fans background sync advisories out to connected
// dashboard clients and keeps a short ring of recent ones for clients
// that poll instead. It is the board.Notifier the store publishes to.
type AdvisoryHub struct {
	mu     sync.Mutex
	recent []board.Advisory
	max    int
	subs   map[chan board.Advisory]struct{}
}

func NewAdvisoryHub(max int) *AdvisoryHub {
	if max <= 0 {
		max = 64
	}
	return &AdvisoryHub{
		max:  max,
		subs: map[chan board.Advisory]struct{}{},
	}
}

// Notify records the advisory and pushes it to every subscriber.
// Slow subscribers drop messages rather than block the publisher.
func (h *AdvisoryHub) Notify(a board.Advisory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recent = append(h.recent, a)
	if len(h.recent) > h.max {
		h.recent = h.recent[len(h.recent)-h.max:]
	}
	for ch := range h.subs {
		select {
		case ch <- a:
		default:
		}
	}
}

// Recent returns the buffered advisories, newest first.
func (h *AdvisoryHub) Recent() []board.Advisory {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]board.Advisory, 0, len(h.recent))
	for i := len(h.recent) - 1; i >= 0; i-- {
		out = append(out, h.recent[i])
	}
	return out
}

func (h *AdvisoryHub) subscribe() (chan board.Advisory, func()) {
	ch := make(chan board.Advisory, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

type advisoryFeed struct {
	Advisories []board.Advisory `json:"advisories"`
}

func (s *Server) handleAdvisoryStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	ch, cancel := s.advisories.subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case advisory := <-ch:
			if err := wsjson.Write(ctx, conn, advisory); err != nil {
				return
			}
		}
	}
}
