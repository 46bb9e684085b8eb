package hub

import "sync"

// TypingTracker holds the set of usernames currently typing. Add and Remove
// are idempotent.
type TypingTracker struct {
	mu    sync.Mutex
	users map[string]struct{}
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{users: make(map[string]struct{})}
}

func (t *TypingTracker) Add(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users[identity] = struct{}{}
}

func (t *TypingTracker) Remove(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.users, identity)
}

// Snapshot returns a materialized copy of the current set, never a live
// view. Order is unspecified.
func (t *TypingTracker) Snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := make([]string, 0, len(t.users))
	for identity := range t.users {
		users = append(users, identity)
	}
	return users
}
