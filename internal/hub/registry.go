package hub

import "sync"

// SessionRegistry keeps the bidirectional mapping between live connections
// and usernames. The two maps are always mutual inverses: no username is
// bound to more than one connection and no connection to more than one
// username.
type SessionRegistry struct {
	mu         sync.RWMutex
	byConn     map[Conn]string
	byIdentity map[string]Conn
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byConn:     make(map[Conn]string),
		byIdentity: make(map[string]Conn),
	}
}

// Register binds identity and conn in both directions. It fails with
// ErrIdentityTaken when the username is held by a different connection;
// check and bind happen under one lock so two simultaneous joins with the
// same name cannot both succeed. A stale mapping for conn is overwritten.
func (r *SessionRegistry) Register(conn Conn, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byIdentity[identity]; ok && existing != conn {
		return ErrIdentityTaken
	}
	if prev, ok := r.byConn[conn]; ok {
		delete(r.byIdentity, prev)
	}
	r.byConn[conn] = identity
	r.byIdentity[identity] = conn
	return nil
}

// Unregister removes both directions of the mapping for conn. Unknown
// connections are a no-op.
func (r *SessionRegistry) Unregister(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byConn[conn]
	if !ok {
		return
	}
	delete(r.byConn, conn)
	delete(r.byIdentity, identity)
}

func (r *SessionRegistry) IdentityOf(conn Conn) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.byConn[conn]
	return identity, ok
}

func (r *SessionRegistry) ConnOf(identity string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byIdentity[identity]
	return conn, ok
}

// ActiveIdentities returns a snapshot of all bound usernames. Order is
// unspecified.
func (r *SessionRegistry) ActiveIdentities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := make([]string, 0, len(r.byIdentity))
	for identity := range r.byIdentity {
		identities = append(identities, identity)
	}
	return identities
}
