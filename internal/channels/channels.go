package channels

import (
	"strings"
)

const main = "main"

const attributeSeparator = "@"
const spaceTag = "space"

type SpaceChannel struct {
	SpaceID string
}

func Space(spaceID string) string {
	return spaceTag + attributeSeparator + spaceID
}

func AsSpaceChannel(channel string) *SpaceChannel {
	channelAttributes := strings.SplitN(channel, attributeSeparator, 2)

	if len(channelAttributes) == 1 || channelAttributes[0] != spaceTag {
		return nil
	}

	return &SpaceChannel{
		SpaceID: channelAttributes[1],
	}
}

// BoundSpace returns the space a connection is bound to through its channel
// list, or "" when it has not joined one.
func BoundSpace(channels []string) string {
	for i := len(channels) - 1; i >= 0; i-- {
		spaceChannel := AsSpaceChannel(channels[i])
		if spaceChannel != nil {
			return spaceChannel.SpaceID
		}
	}

	return ""
}

func IsSpace(channel string) bool {
	return AsSpaceChannel(channel) != nil
}

func IsMain(channel string) bool {
	return channel == main
}

func IsValid(channel string) bool {
	if channel == main {
		return true
	}

	spaceChannel := AsSpaceChannel(channel)
	return spaceChannel != nil && spaceChannel.SpaceID != ""
}
