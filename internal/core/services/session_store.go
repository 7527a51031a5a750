// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/jaycherian/thumbstopper-ai/internal/telemetry"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps sessions in memory and expires the ones left idle for
// longer than the TTL. Every lookup restarts the session's TTL.
type SessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionStore creates a store.
//
// Inputs:
//   - ttl: Idle lifetime of a session.
//   - cleanupInterval: How often expired sessions are purged.
//
// Outputs:
//   - *SessionStore: The store.
func NewSessionStore(ttl, cleanupInterval time.Duration) *SessionStore {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(_ string, value interface{}) {
		if session, ok := value.(*Session); ok {
			session.close()
		}
		telemetry.ActiveSessions.Dec()
	})
	return &SessionStore{cache: c, ttl: ttl}
}

// Create registers a new empty session under a random id.
func (s *SessionStore) Create() *Session {
	session := newSession(uuid.NewString())
	s.cache.Set(session.id, session, cache.DefaultExpiration)
	telemetry.ActiveSessions.Inc()
	return session
}

// Get returns the session and extends its lifetime.
func (s *SessionStore) Get(id string) (*Session, error) {
	value, found := s.cache.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	session := value.(*Session)
	s.cache.Set(id, session, cache.DefaultExpiration)
	return session, nil
}

// Delete removes a session immediately.
func (s *SessionStore) Delete(id string) {
	s.cache.Delete(id)
}

// Count returns the number of stored sessions, expired ones included until
// the next cleanup.
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}
