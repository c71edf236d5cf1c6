package channels

import (
	"testing"
)

func TestSpaceChannelRoundTrip(t *testing.T) {
	channel := Space("sp-42")
	if channel != "space@sp-42" {
		t.Fatalf("unexpected channel name %q", channel)
	}

	parsed := AsSpaceChannel(channel)
	if parsed == nil || parsed.SpaceID != "sp-42" {
		t.Fatalf("expected space id sp-42, got %#v", parsed)
	}
}

func TestAsSpaceChannelRejectsOtherChannels(t *testing.T) {
	for _, channel := range []string{"main", "play@abc", "space", ""} {
		if AsSpaceChannel(channel) != nil {
			t.Errorf("channel %q parsed as a space channel", channel)
		}
	}
}

func TestBoundSpace(t *testing.T) {
	if got := BoundSpace([]string{"main"}); got != "" {
		t.Errorf("expected no bound space, got %q", got)
	}

	if got := BoundSpace([]string{"main", "space@sp-1"}); got != "sp-1" {
		t.Errorf("expected sp-1, got %q", got)
	}
}

func TestIsValid(t *testing.T) {
	cases := map[string]bool{
		"main":      true,
		"space@sp1": true,
		"space@":    false,
		"watch@sp1": false,
		"lobby":     false,
	}

	for channel, want := range cases {
		if got := IsValid(channel); got != want {
			t.Errorf("IsValid(%q) = %v, want %v", channel, got, want)
		}
	}
}
