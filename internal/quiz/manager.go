package quiz

import "sync"

// Manager holds one Session per client and the per-client busy flag that
// prevents overlapping generation calls (the generation client itself does
// not deduplicate).
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	busy     map[string]bool
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		busy:     make(map[string]bool),
	}
}

// Session returns the client's session, creating an empty one if needed.
func (m *Manager) Session(clientID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[clientID]
	if !ok {
		sess = NewSession()
		m.sessions[clientID] = sess
	}
	return sess
}

// TryBeginGeneration marks the client busy. Returns false if a generation
// call is already in flight for this client.
func (m *Manager) TryBeginGeneration(clientID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.busy[clientID] {
		return false
	}
	m.busy[clientID] = true
	return true
}

// EndGeneration clears the client's busy flag.
func (m *Manager) EndGeneration(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.busy, clientID)
}

// Drop discards the client's session entirely (logout).
func (m *Manager) Drop(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, clientID)
}
