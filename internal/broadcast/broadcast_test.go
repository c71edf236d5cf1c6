package broadcast

import (
	"encoding/json"
	"testing"

	"github.com/tilespace/server/internal/arena"
	"github.com/tilespace/server/internal/presence"
)

type published struct {
	channel string
	data    []byte
}

func recordingBroadcaster() (*Broadcaster, *[]published) {
	var log []published
	b := New(func(channel string, data []byte) {
		log = append(log, published{channel: channel, data: data})
	})
	return b, &log
}

func decode(t *testing.T, data []byte) (string, map[string]any) {
	t.Helper()

	var e struct {
		Type    string         `json:"type"`
		Message map[string]any `json:"message"`
	}
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("payload is not a valid event: %v", err)
	}
	return e.Type, e.Message
}

func TestAnnounceJoinTargetsSpaceChannel(t *testing.T) {
	b, log := recordingBroadcaster()

	b.AnnounceJoin("sp-1", "conn-9", presence.Entry{
		UserID: "u-a", Nickname: "ada", Position: arena.Position{X: 10, Y: 10},
	})

	if len(*log) != 1 {
		t.Fatalf("expected one publish, got %d", len(*log))
	}
	if (*log)[0].channel != "space@sp-1" {
		t.Errorf("published to %q", (*log)[0].channel)
	}

	typ, message := decode(t, (*log)[0].data)
	if typ != "join_space" {
		t.Errorf("unexpected event type %q", typ)
	}
	if message["id"] != "conn-9" || message["success"] != true {
		t.Errorf("unexpected join message %#v", message)
	}
	entry, _ := message["users"].(map[string]any)
	if entry["userId"] != "u-a" {
		t.Errorf("join carries wrong entry: %#v", entry)
	}
}

func TestAnnounceMoveCarriesMoverAndCoordinates(t *testing.T) {
	b, log := recordingBroadcaster()

	b.AnnounceMove("sp-1", "u-a", arena.Position{X: 50, Y: 60})

	typ, message := decode(t, (*log)[0].data)
	if typ != "movementResult" {
		t.Errorf("unexpected event type %q", typ)
	}
	if message["id"] != "u-a" {
		t.Errorf("broadcast is missing the mover: %#v", message)
	}
	coords, _ := message["newCoordinates"].(map[string]any)
	if coords["x"] != float64(50) || coords["y"] != float64(60) {
		t.Errorf("unexpected coordinates %#v", coords)
	}
}

func TestAnnounceLeave(t *testing.T) {
	b, log := recordingBroadcaster()

	b.AnnounceLeave("sp-1", "u-a")

	typ, message := decode(t, (*log)[0].data)
	if typ != "leave_space" || message["id"] != "u-a" {
		t.Errorf("unexpected leave event %q %#v", typ, message)
	}
}

func TestInitPayloadListsAllOccupants(t *testing.T) {
	data := InitPayload([]presence.Entry{
		{UserID: "u-a"},
		{UserID: "u-b"},
	}, "u-b")

	typ, message := decode(t, data)
	if typ != "initialize_space" {
		t.Errorf("unexpected event type %q", typ)
	}
	if message["currentUserId"] != "u-b" {
		t.Errorf("missing current user: %#v", message)
	}
	users, _ := message["users"].([]any)
	if len(users) != 2 {
		t.Errorf("expected both occupants in the snapshot: %#v", users)
	}
}

func TestMoveReplies(t *testing.T) {
	typ, message := decode(t, MoveAccepted(arena.Position{X: 5, Y: 6}))
	if typ != "movementResult" || message["success"] != true {
		t.Errorf("unexpected accepted reply %q %#v", typ, message)
	}
	if _, hasID := message["id"]; hasID {
		t.Error("direct reply must not carry a mover id")
	}

	typ, message = decode(t, MoveRejected("position occupied"))
	if typ != "movementResult" || message["success"] != false {
		t.Errorf("unexpected rejected reply %q %#v", typ, message)
	}
	if message["message"] != "position occupied" {
		t.Errorf("rejected reply is missing its reason: %#v", message)
	}
}
