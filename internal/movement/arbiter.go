package movement

import (
	"context"
	"errors"
	"fmt"

	"github.com/tilespace/server/internal/arena"
	"github.com/tilespace/server/internal/presence"
)

var ErrPositionOccupied = errors.New("movement: position occupied")
var ErrOracleUnavailable = errors.New("movement: occupancy oracle unavailable")
var ErrStaleConnection = errors.New("movement: stale connection")

// Arbiter validates movement intents against the occupancy oracle and the
// live occupants of a room before committing them to the registry.
type Arbiter struct {
	registry *presence.Registry
	oracle   arena.Oracle
	width    int
	height   int
}

func NewArbiter(registry *presence.Registry, oracle arena.Oracle, avatarWidth int, avatarHeight int) *Arbiter {
	if avatarWidth <= 0 {
		avatarWidth = 1
	}
	if avatarHeight <= 0 {
		avatarHeight = 1
	}

	return &Arbiter{
		registry: registry,
		oracle:   oracle,
		width:    avatarWidth,
		height:   avatarHeight,
	}
}

// RequestMove resolves one movement intent. A rejected move leaves the
// registry untouched; the accepted position is returned for the caller to
// report and broadcast.
func (a *Arbiter) RequestMove(ctx context.Context, spaceID string, userID string, target arena.Position) (arena.Position, error) {
	footprint := arena.Rect{X: target.X, Y: target.Y, Width: a.width, Height: a.height}

	blocked, err := a.oracle.IsBlocked(ctx, spaceID, footprint)
	if err != nil {
		return arena.Position{}, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if blocked {
		return arena.Position{}, ErrPositionOccupied
	}

	for _, occupant := range a.registry.Snapshot(spaceID) {
		if occupant.UserID == userID {
			continue
		}
		at := arena.Rect{X: occupant.Position.X, Y: occupant.Position.Y, Width: a.width, Height: a.height}
		if footprint.Intersects(at) {
			return arena.Position{}, ErrPositionOccupied
		}
	}

	entry, err := a.registry.UpdatePosition(spaceID, userID, target)
	if err != nil {
		return arena.Position{}, ErrStaleConnection
	}

	return entry.Position, nil
}
