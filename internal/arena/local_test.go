package arena

import (
	"context"
	"testing"
)

const testMap = `
width = 100
height = 80

[[elements]]
x = 20
y = 20
width = 20
height = 20

[[elements]]
x = 60
y = 10
width = 5
height = 5
`

func testLocalOracle(t *testing.T) *LocalOracle {
	t.Helper()

	spaceMap, err := LoadSpaceMap(testMap)
	if err != nil {
		t.Fatalf("LoadSpaceMap failed: %v", err)
	}

	oracle := NewLocalOracle()
	oracle.Add("sp-1", spaceMap)
	return oracle
}

func TestLocalOracleBlocksElements(t *testing.T) {
	oracle := testLocalOracle(t)

	blocked, err := oracle.IsBlocked(context.Background(), "sp-1", Rect{X: 25, Y: 25, Width: 1, Height: 1})
	if err != nil {
		t.Fatalf("IsBlocked failed: %v", err)
	}
	if !blocked {
		t.Error("expected a position inside an element to be blocked")
	}

	blocked, err = oracle.IsBlocked(context.Background(), "sp-1", Rect{X: 50, Y: 50, Width: 1, Height: 1})
	if err != nil {
		t.Fatalf("IsBlocked failed: %v", err)
	}
	if blocked {
		t.Error("expected a clear position to be free")
	}
}

func TestLocalOracleBlocksOutOfBounds(t *testing.T) {
	oracle := testLocalOracle(t)

	for _, r := range []Rect{
		{X: -1, Y: 0, Width: 1, Height: 1},
		{X: 100, Y: 0, Width: 1, Height: 1},
		{X: 99, Y: 79, Width: 2, Height: 2},
	} {
		blocked, err := oracle.IsBlocked(context.Background(), "sp-1", r)
		if err != nil {
			t.Fatalf("IsBlocked(%#v) failed: %v", r, err)
		}
		if !blocked {
			t.Errorf("expected %#v to be out of bounds", r)
		}
	}
}

func TestLocalOracleUnknownSpace(t *testing.T) {
	oracle := testLocalOracle(t)

	if _, err := oracle.IsBlocked(context.Background(), "sp-2", Rect{Width: 1, Height: 1}); err != ErrUnknownSpace {
		t.Errorf("expected ErrUnknownSpace, got %v", err)
	}
}

func TestLoadSpaceMapRejectsInvalidBounds(t *testing.T) {
	if _, err := LoadSpaceMap("width = 0\nheight = 10\n"); err == nil {
		t.Error("expected an error for zero width")
	}

	if _, err := LoadSpaceMap("not toml ["); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}
