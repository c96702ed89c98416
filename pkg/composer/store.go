package composer

import (
	"sync"

	"github.com/arnavshah/schedule-composer-api/pkg/models"
	"github.com/google/uuid"
)

// EmitHook receives every payload a session emits, tagged with the
// session ID. The HTTP layer uses it to persist the latest draft.
type EmitHook func(sessionID string, p models.SchedulePayload)

// Session wraps one composer behind a mutex. The composer itself is
// single-threaded by design; the lock serializes concurrent HTTP requests
// hitting the same session.
type Session struct {
	ID string

	mu       sync.Mutex
	composer *Composer
	latest   models.SchedulePayload
}

// Do runs one mutation (or read) against the session's composer and
// returns the payload that was current when it finished. Mutation and
// re-emission happen under the same lock, so no request observes a
// payload older than its own edit.
func (s *Session) Do(fn func(*Composer)) models.SchedulePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.composer)
	return s.latest
}

// Latest returns the most recently emitted payload
func (s *Session) Latest() models.SchedulePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Store is the in-memory registry of live composition sessions
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session registry
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create opens a new session for the given role type. The hook, if any,
// observes every emission including the initial one.
func (st *Store) Create(roleType models.RoleType, hook EmitHook) *Session {
	s := &Session{ID: uuid.New().String()}
	s.composer = New(roleType, func(p models.SchedulePayload) {
		s.latest = p
		if hook != nil {
			hook(s.ID, p)
		}
	})

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a session by ID
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete drops a session from the registry. Unknown IDs are a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Count returns the number of live sessions
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
