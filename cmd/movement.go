package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/centrifugal/centrifuge"

	"github.com/tilespace/server/internal/arena"
	"github.com/tilespace/server/internal/broadcast"
	"github.com/tilespace/server/internal/channels"
	"github.com/tilespace/server/internal/colors"
	"github.com/tilespace/server/internal/movement"
)

type movementRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// handleMovement resolves one movement intent and returns the direct reply
// for the mover. The room-wide broadcast happens here too, so acceptance is
// never reported without it.
func handleMovement(client *centrifuge.Client, d *deps, data []byte) []byte {
	spaceID := channels.BoundSpace(client.Channels())
	if spaceID == "" {
		return broadcast.MoveRejected("not in a space")
	}

	var req movementRequest
	if err := json.Unmarshal(data, &req); err != nil || req.X == nil || req.Y == nil || *req.X < 0 || *req.Y < 0 {
		return broadcast.MoveRejected("malformed movement payload")
	}

	ctx, cancel := context.WithTimeout(client.Context(), d.cfg.QueryTimeout)
	defer cancel()

	target := arena.Position{X: *req.X, Y: *req.Y}
	position, err := d.arbiter.RequestMove(ctx, spaceID, client.UserID(), target)
	if err != nil {
		log.Printf("[%v] move to (%v,%v) rejected: %v",
			colors.Warning(client.UserID()), target.X, target.Y, err)
		return broadcast.MoveRejected(rejectionMessage(err))
	}

	d.caster.AnnounceMove(spaceID, client.UserID(), position)
	log.Printf("[%v] moved to (%v,%v)", colors.Moved(client.UserID()), position.X, position.Y)

	return broadcast.MoveAccepted(position)
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, movement.ErrPositionOccupied):
		return "position occupied"
	case errors.Is(err, movement.ErrOracleUnavailable):
		return "occupancy check unavailable"
	case errors.Is(err, movement.ErrStaleConnection):
		return "no longer present in this space"
	}

	return "movement rejected"
}
