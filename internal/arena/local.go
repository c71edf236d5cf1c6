package arena

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// SpaceMap is a space definition loaded from a TOML map file: the space
// bounds plus every static and placed element rectangle.
type SpaceMap struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	Elements []Rect `toml:"elements"`
}

func LoadSpaceMap(data string) (SpaceMap, error) {
	var spaceMap SpaceMap
	if err := toml.Unmarshal([]byte(data), &spaceMap); err != nil {
		return SpaceMap{}, fmt.Errorf("failed to parse space map TOML:\n\t- %w", err)
	}

	if spaceMap.Width <= 0 || spaceMap.Height <= 0 {
		return SpaceMap{}, fmt.Errorf("space map has invalid bounds %vx%v", spaceMap.Width, spaceMap.Height)
	}

	return spaceMap, nil
}

// LocalOracle serves occupancy from map files on disk, for development
// without the platform API and for tests.
type LocalOracle struct {
	mu     sync.RWMutex
	spaces map[string]SpaceMap
}

func NewLocalOracle() *LocalOracle {
	return &LocalOracle{spaces: make(map[string]SpaceMap)}
}

// NewLocalOracleFromDir loads every <spaceId>.toml file under dir.
func NewLocalOracleFromDir(dir string) (*LocalOracle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read space dir: %w", err)
	}

	oracle := NewLocalOracle()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		spaceMap, err := LoadSpaceMap(string(data))
		if err != nil {
			return nil, fmt.Errorf("%v: %w", entry.Name(), err)
		}

		oracle.Add(strings.TrimSuffix(entry.Name(), ".toml"), spaceMap)
	}

	return oracle, nil
}

func (o *LocalOracle) Add(spaceID string, spaceMap SpaceMap) {
	o.mu.Lock()
	o.spaces[spaceID] = spaceMap
	o.mu.Unlock()
}

func (o *LocalOracle) IsBlocked(ctx context.Context, spaceID string, r Rect) (bool, error) {
	o.mu.RLock()
	spaceMap, ok := o.spaces[spaceID]
	o.mu.RUnlock()

	if !ok {
		return false, ErrUnknownSpace
	}

	if r.X < 0 || r.Y < 0 || r.X+r.Width > spaceMap.Width || r.Y+r.Height > spaceMap.Height {
		return true, nil
	}

	for _, element := range spaceMap.Elements {
		if r.Intersects(element) {
			return true, nil
		}
	}

	return false, nil
}
