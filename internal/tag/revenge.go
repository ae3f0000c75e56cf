package tag

import "time"

// revengeWindow shields a freshly tagged-out player from being immediately
// re-tagged by the player who just became IT off them.
type revengeWindow struct {
	protectedID string // may not be tagged
	taggerID    string // may not tag them
	expiresAt   time.Time
}

// RevengeRegistry holds the active revenge windows of one game. Not safe
// for concurrent use; the owning evaluator serializes access.
type RevengeRegistry struct {
	windows map[string]revengeWindow // keyed by protected|tagger
}

// NewRevengeRegistry creates an empty registry.
func NewRevengeRegistry() *RevengeRegistry {
	return &RevengeRegistry{windows: make(map[string]revengeWindow)}
}

func windowKey(protectedID, taggerID string) string {
	return protectedID + "|" + taggerID
}

// Add records a window protecting protectedID from taggerID until expiresAt.
// Windows with a non-future expiry are ignored.
func (r *RevengeRegistry) Add(protectedID, taggerID string, expiresAt, now time.Time) {
	if !expiresAt.After(now) {
		return
	}
	r.windows[windowKey(protectedID, taggerID)] = revengeWindow{
		protectedID: protectedID,
		taggerID:    taggerID,
		expiresAt:   expiresAt,
	}
}

// Blocks reports whether an active window forbids taggerID from tagging
// targetID at now.
func (r *RevengeRegistry) Blocks(taggerID, targetID string, now time.Time) bool {
	w, ok := r.windows[windowKey(targetID, taggerID)]
	return ok && w.expiresAt.After(now)
}

// Prune drops expired windows.
func (r *RevengeRegistry) Prune(now time.Time) {
	for key, w := range r.windows {
		if !w.expiresAt.After(now) {
			delete(r.windows, key)
		}
	}
}

// Len returns the number of stored windows, expired or not.
func (r *RevengeRegistry) Len() int { return len(r.windows) }

// Clear drops every window, part of game teardown.
func (r *RevengeRegistry) Clear() {
	r.windows = make(map[string]revengeWindow)
}
