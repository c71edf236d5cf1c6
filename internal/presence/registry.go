package presence

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tilespace/server/internal/arena"
)

var ErrUnknownRoomOrUser = errors.New("presence: unknown room or user")

// Entry is the live record of one user inside a space.
type Entry struct {
	UserID    string         `json:"userId"`
	Nickname  string         `json:"nickname"`
	AvatarURL string         `json:"avatar"`
	Position  arena.Position `json:"position"`
}

type room struct {
	mu      sync.Mutex
	members map[string]string // connection id -> user id
	entries map[string]*Entry // user id -> live state
}

func newRoom() *room {
	return &room{
		members: make(map[string]string),
		entries: make(map[string]*Entry),
	}
}

func (rm *room) snapshotLocked() []Entry {
	snapshot := make([]Entry, 0, len(rm.entries))
	for _, entry := range rm.entries {
		snapshot = append(snapshot, *entry)
	}

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].UserID < snapshot[j].UserID
	})
	return snapshot
}

func (rm *room) hasUserLocked(userID string) bool {
	for _, uid := range rm.members {
		if uid == userID {
			return true
		}
	}
	return false
}

// Registry owns every room's presence state. Rooms are created on first
// admission and torn down when the last member leaves; nothing outside this
// package holds a mutable reference to a room.
type Registry struct {
	resolver arena.Resolver

	mu    sync.RWMutex
	rooms map[string]*room
}

func NewRegistry(resolver arena.Resolver) *Registry {
	return &Registry{
		resolver: resolver,
		rooms:    make(map[string]*room),
	}
}

// Admit adds a connection to a space. The first admission of a user fetches
// their profile and last drop position from the resolver; a user the room
// already holds is reused unchanged. A failed fetch admits nothing: the room
// is only created once the entry is ready to commit.
//
// Returns whether the room was just created and the post-admit snapshot,
// including the admitted user.
func (reg *Registry) Admit(ctx context.Context, spaceID string, userID string, connID string) (bool, []Entry, error) {
	entry := reg.peek(spaceID, userID)

	if entry == nil {
		profile, err := reg.resolver.Profile(ctx, userID)
		if err != nil {
			return false, nil, err
		}
		entry = &Entry{
			UserID:    userID,
			Nickname:  profile.Nickname,
			AvatarURL: profile.AvatarURL,
			Position:  profile.LastPosition,
		}
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, exists := reg.rooms[spaceID]
	if !exists {
		rm = newRoom()
		reg.rooms[spaceID] = rm
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	// Another connection of the same user may have committed while the
	// profile fetch was in flight; its entry wins.
	if existing, ok := rm.entries[userID]; ok {
		entry = existing
	}
	rm.entries[userID] = entry
	rm.members[connID] = userID

	return !exists, rm.snapshotLocked(), nil
}

func (reg *Registry) UpdatePosition(spaceID string, userID string, position arena.Position) (Entry, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rm, ok := reg.rooms[spaceID]
	if !ok {
		return Entry{}, ErrUnknownRoomOrUser
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	entry, ok := rm.entries[userID]
	if !ok {
		return Entry{}, ErrUnknownRoomOrUser
	}

	entry.Position = position
	return *entry, nil
}

// Evict removes a connection from a space. The user's presence entry is only
// dropped when no other live connection of theirs remains; the room itself is
// dropped when its last member leaves. Safe to call more than once for the
// same connection.
func (reg *Registry) Evict(spaceID string, userID string, connID string) (left bool, tornDown bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm, ok := reg.rooms[spaceID]
	if !ok {
		return false, false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	uid, member := rm.members[connID]
	if member {
		delete(rm.members, connID)
		if !rm.hasUserLocked(uid) {
			delete(rm.entries, uid)
			left = true
		}
	}

	if len(rm.members) == 0 {
		delete(reg.rooms, spaceID)
		tornDown = true
	}

	return left, tornDown
}

// Snapshot returns the room's entries, or an empty slice for an absent room.
func (reg *Registry) Snapshot(spaceID string) []Entry {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rm, ok := reg.rooms[spaceID]
	if !ok {
		return []Entry{}
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.snapshotLocked()
}

func (reg *Registry) peek(spaceID string, userID string) *Entry {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rm, ok := reg.rooms[spaceID]
	if !ok {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	entry, ok := rm.entries[userID]
	if !ok {
		return nil
	}

	cached := *entry
	return &cached
}
