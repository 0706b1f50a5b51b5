// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session hosts list controllers for HTTP clients.

Each session owns one [list.Controller]. Clients receive a signed token at
creation and drive their controller through the session routes; the rendered
list is either polled (GET /state) or streamed (GET /events).

Sessions idle for longer than the registry TTL are evicted and their
controllers closed, which ends any open event stream.
*/
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/rickmorty/internal/character/list"
	"github.com/taibuivan/rickmorty/internal/platform/constants"
	"github.com/taibuivan/rickmorty/pkg/uuid"
)

// Session is one client's list controller plus its idle clock.
type Session struct {
	ID         string
	Controller *list.Controller

	mu       sync.Mutex
	lastSeen time.Time
}

// Touch records activity at now.
func (session *Session) Touch(now time.Time) {
	session.mu.Lock()
	session.lastSeen = now
	session.mu.Unlock()
}

// LastSeen returns the time of the latest activity.
func (session *Session) LastSeen() time.Time {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.lastSeen
}

// Registry owns every live [Session].
type Registry struct {
	source list.PageSource
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry constructs an empty [Registry]. Every session it creates reads
// pages from source.
func NewRegistry(source list.PageSource, ttl time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		source:   source,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

/*
Create registers a new session with a fresh controller in the Loading state.

Returns:
  - *Session: The new session (no page has been requested yet)
  - error: When an ID cannot be generated
*/
func (registry *Registry) Create(ctx context.Context) (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:         id,
		Controller: list.New(registry.source, registry.logger.With(slog.String("session_id", id))),
		lastSeen:   registry.now(),
	}

	registry.mu.Lock()
	registry.sessions[id] = session
	total := len(registry.sessions)
	registry.mu.Unlock()

	registry.logger.InfoContext(ctx, "session_created",
		slog.String("session_id", id),
		slog.Int("active", total),
	)
	return session, nil
}

// Get returns the session and marks it active.
func (registry *Registry) Get(id string) (*Session, bool) {
	registry.mu.RLock()
	session, ok := registry.sessions[id]
	registry.mu.RUnlock()

	if ok {
		session.Touch(registry.now())
	}
	return session, ok
}

// Delete removes the session and closes its controller.
// It reports whether the session existed.
func (registry *Registry) Delete(id string) bool {
	registry.mu.Lock()
	session, ok := registry.sessions[id]
	delete(registry.sessions, id)
	registry.mu.Unlock()

	if ok {
		session.Controller.Close()
	}
	return ok
}

// Len returns the number of live sessions.
func (registry *Registry) Len() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return len(registry.sessions)
}

// Sweep evicts every session idle for longer than the TTL and returns how
// many were removed.
func (registry *Registry) Sweep() int {
	cutoff := registry.now().Add(-registry.ttl)

	var expired []*Session
	registry.mu.Lock()
	for id, session := range registry.sessions {
		if session.LastSeen().Before(cutoff) {
			expired = append(expired, session)
			delete(registry.sessions, id)
		}
	}
	registry.mu.Unlock()

	for _, session := range expired {
		session.Controller.Close()
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is cancelled, then closes the rest.
func (registry *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(constants.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := registry.Sweep(); evicted > 0 {
				registry.logger.Info("sessions_evicted",
					slog.Int("evicted", evicted),
					slog.Int("active", registry.Len()),
				)
			}
		case <-ctx.Done():
			registry.closeAll()
			return
		}
	}
}

func (registry *Registry) closeAll() {
	registry.mu.Lock()
	sessions := registry.sessions
	registry.sessions = make(map[string]*Session)
	registry.mu.Unlock()

	for _, session := range sessions {
		session.Controller.Close()
	}
}
