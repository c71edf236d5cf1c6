package arena

import (
	"context"
	"errors"
)

var ErrUnknownProfile = errors.New("arena: no profile for user")
var ErrUnknownSpace = errors.New("arena: unknown space")

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Rect struct {
	X      int `json:"x" toml:"x"`
	Y      int `json:"y" toml:"y"`
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height &&
		other.Y < r.Y+r.Height
}

type Profile struct {
	UserID       string
	Nickname     string
	AvatarURL    string
	LastPosition Position
}

// Oracle answers whether a rectangle in a space is blocked by a static map
// element, a placed element, or the space bounds.
type Oracle interface {
	IsBlocked(ctx context.Context, spaceID string, r Rect) (bool, error)
}

// Resolver exposes the platform's identity data: credential validity and
// user profiles with their last known drop position.
type Resolver interface {
	ValidateToken(ctx context.Context, token string) (bool, error)
	Profile(ctx context.Context, userID string) (Profile, error)
}
