package checkanswer

import (
	"context"
	"sync"
	"time"

	ierr "go-firestore-qna/internal/errors"
)

// Session tracks the question a user is currently looking at. Every Load starts a new
// generation, and a load that finishes after a newer one started is discarded.
type Session struct {
	handler *Handler
	userId  string

	mu         sync.Mutex
	generation uint64
	active     int
	lastUsed   time.Time
}

// Session returns the session of the user, creating it on first use. Sessions idle for
// longer than sessionIdleTimeout with no load in flight are dropped.
func (h *Handler) Session(userId string) *Session {
	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()

	now := h.now()
	h.evictIdle(now)

	s, ok := h.sessions[userId]
	if !ok {
		s = &Session{handler: h, userId: userId}
		h.sessions[userId] = s
	}

	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
	return s
}

// evictIdle must be called with sessionsMu held.
func (h *Handler) evictIdle(now time.Time) {
	if now.Sub(h.lastSweep) < sessionSweepInterval {
		return
	}
	h.lastSweep = now

	for userId, s := range h.sessions {
		s.mu.Lock()
		idle := s.active == 0 && now.Sub(s.lastUsed) > sessionIdleTimeout
		s.mu.Unlock()
		if idle {
			delete(h.sessions, userId)
		}
	}
}

func (s *Session) Load(ctx context.Context, questionId int) (Screen, error) {
	s.mu.Lock()
	s.generation++
	s.active++
	generation := s.generation
	s.mu.Unlock()

	screen, err := s.handler.Load(ctx, s.userId, questionId)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active--
	s.lastUsed = s.handler.now()
	if generation != s.generation {
		return Screen{}, ierr.Superseded
	}
	return screen, err
}

// Show loads the question through the user's session. A response for a question the user
// already navigated away from comes back as ierr.Superseded.
func (h *Handler) Show(ctx context.Context, userId string, questionId int) (Screen, error) {
	return h.Session(userId).Load(ctx, questionId)
}
