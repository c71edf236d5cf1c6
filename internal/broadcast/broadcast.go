package broadcast

import (
	"encoding/json"

	"github.com/tilespace/server/internal/arena"
	"github.com/tilespace/server/internal/channels"
	"github.com/tilespace/server/internal/presence"
)

// PublishFunc delivers a payload to every current subscriber of a channel,
// best effort per connection.
type PublishFunc func(channel string, data []byte)

type event struct {
	Type    string `json:"type"`
	Message any    `json:"message"`
}

type initMessage struct {
	Success       bool             `json:"success"`
	Users         []presence.Entry `json:"users"`
	CurrentUserID string           `json:"currentUserId"`
}

type joinMessage struct {
	Success bool           `json:"success"`
	ID      string         `json:"id"`
	Users   presence.Entry `json:"users"`
}

type moveMessage struct {
	Success        bool            `json:"success"`
	ID             string          `json:"id,omitempty"`
	NewCoordinates *arena.Position `json:"newCoordinates,omitempty"`
	Reason         string          `json:"message,omitempty"`
}

type leaveMessage struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// Broadcaster fans room events out to a space's channel. Direct replies to a
// single connection are built with the payload helpers below and sent by the
// caller over its own transport handle.
type Broadcaster struct {
	publish PublishFunc
}

func New(publish PublishFunc) *Broadcaster {
	return &Broadcaster{publish: publish}
}

func (b *Broadcaster) AnnounceJoin(spaceID string, connID string, entry presence.Entry) {
	b.send(spaceID, event{
		Type:    "join_space",
		Message: joinMessage{Success: true, ID: connID, Users: entry},
	})
}

func (b *Broadcaster) AnnounceMove(spaceID string, userID string, position arena.Position) {
	b.send(spaceID, event{
		Type:    "movementResult",
		Message: moveMessage{Success: true, ID: userID, NewCoordinates: &position},
	})
}

func (b *Broadcaster) AnnounceLeave(spaceID string, userID string) {
	b.send(spaceID, event{
		Type:    "leave_space",
		Message: leaveMessage{Success: true, ID: userID},
	})
}

func (b *Broadcaster) send(spaceID string, e event) {
	data, _ := json.Marshal(e)
	b.publish(channels.Space(spaceID), data)
}

// InitPayload is the one-shot snapshot sent to a newly admitted connection
// before any broadcast can reach it.
func InitPayload(entries []presence.Entry, currentUserID string) []byte {
	data, _ := json.Marshal(event{
		Type:    "initialize_space",
		Message: initMessage{Success: true, Users: entries, CurrentUserID: currentUserID},
	})
	return data
}

func MoveAccepted(position arena.Position) []byte {
	data, _ := json.Marshal(event{
		Type:    "movementResult",
		Message: moveMessage{Success: true, NewCoordinates: &position},
	})
	return data
}

func MoveRejected(reason string) []byte {
	data, _ := json.Marshal(event{
		Type:    "movementResult",
		Message: moveMessage{Success: false, Reason: reason},
	})
	return data
}
