package arena

import (
	"context"
	"sync"
	"time"
)

// FakeOracle is the in-memory Oracle used by tests. Delay and Err simulate a
// slow or failing collaborator.
type FakeOracle struct {
	mu      sync.Mutex
	blocked map[string][]Rect

	Delay time.Duration
	Err   error
}

func NewFakeOracle() *FakeOracle {
	return &FakeOracle{blocked: make(map[string][]Rect)}
}

func (o *FakeOracle) Block(spaceID string, r Rect) {
	o.mu.Lock()
	o.blocked[spaceID] = append(o.blocked[spaceID], r)
	o.mu.Unlock()
}

func (o *FakeOracle) IsBlocked(ctx context.Context, spaceID string, r Rect) (bool, error) {
	if o.Delay > 0 {
		select {
		case <-time.After(o.Delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	if o.Err != nil {
		return false, o.Err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, element := range o.blocked[spaceID] {
		if r.Intersects(element) {
			return true, nil
		}
	}

	return false, nil
}

// FakeResolver is the in-memory Resolver used by tests.
type FakeResolver struct {
	mu       sync.Mutex
	valid    map[string]bool
	profiles map[string]Profile

	ProfileCalls int
	Delay        time.Duration
	Err          error
}

func NewFakeResolver() *FakeResolver {
	return &FakeResolver{
		valid:    make(map[string]bool),
		profiles: make(map[string]Profile),
	}
}

func (r *FakeResolver) AddToken(token string) {
	r.mu.Lock()
	r.valid[token] = true
	r.mu.Unlock()
}

func (r *FakeResolver) AddProfile(profile Profile) {
	r.mu.Lock()
	r.profiles[profile.UserID] = profile
	r.mu.Unlock()
}

func (r *FakeResolver) ValidateToken(ctx context.Context, token string) (bool, error) {
	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	if r.Err != nil {
		return false, r.Err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.valid[token], nil
}

func (r *FakeResolver) Profile(ctx context.Context, userID string) (Profile, error) {
	if r.Delay > 0 {
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return Profile{}, ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ProfileCalls++

	if r.Err != nil {
		return Profile{}, r.Err
	}

	profile, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrUnknownProfile
	}

	return profile, nil
}
