package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/centrifugal/centrifuge"

	"github.com/tilespace/server/internal/broadcast"
	"github.com/tilespace/server/internal/channels"
	"github.com/tilespace/server/internal/colors"
)

func onSubscribe(client *centrifuge.Client, d *deps) func(centrifuge.SubscribeEvent, centrifuge.SubscribeCallback) {
	return func(e centrifuge.SubscribeEvent, cb centrifuge.SubscribeCallback) {
		if !channels.IsValid(e.Channel) {
			cb(centrifuge.SubscribeReply{}, centrifuge.ErrorUnknownChannel)
			return
		}

		spaceChannel := channels.AsSpaceChannel(e.Channel)
		if spaceChannel == nil {
			cb(centrifuge.SubscribeReply{Options: visibleSubscription()}, nil)
			return
		}

		// A connection binds to one space, once.
		if channels.BoundSpace(client.Channels()) != "" {
			cb(centrifuge.SubscribeReply{}, centrifuge.ErrorPermissionDenied)
			return
		}

		token := connectionToken(client.Context())
		userID, err := d.gate.Authorize(client.Context(), token, spaceChannel.SpaceID)
		if err != nil {
			log.Printf("[%v] refused entry into %v: %v",
				colors.Warning(client.UserID()), colors.Warning(spaceChannel.SpaceID), err)
			cb(centrifuge.SubscribeReply{}, centrifuge.ErrorPermissionDenied)
			return
		}

		ctx, cancel := context.WithTimeout(client.Context(), d.cfg.QueryTimeout)
		defer cancel()

		first, snapshot, err := d.registry.Admit(ctx, spaceChannel.SpaceID, userID, client.ID())
		if err != nil {
			log.Printf("[%v] admission into %v failed: %v",
				colors.Error(userID), colors.Error(spaceChannel.SpaceID), err)
			cb(centrifuge.SubscribeReply{}, centrifuge.ErrorInternal)
			return
		}

		// The snapshot goes straight to this connection; the join is
		// published to the channel before this subscription lands, so only
		// the existing members see it.
		client.Send(broadcast.InitPayload(snapshot, userID))

		for _, entry := range snapshot {
			if entry.UserID == userID {
				d.caster.AnnounceJoin(spaceChannel.SpaceID, client.ID(), entry)
				break
			}
		}

		if first {
			log.Printf("[%v] space opened", colors.Joined(spaceChannel.SpaceID))
		}
		log.Printf("[%v] joined %v", colors.Joined(userID), colors.Joined(e.Channel))

		cb(centrifuge.SubscribeReply{Options: visibleSubscription()}, nil)
	}
}

func onUnsubscribe(client *centrifuge.Client, d *deps) func(centrifuge.UnsubscribeEvent) {
	return func(e centrifuge.UnsubscribeEvent) {
		spaceChannel := channels.AsSpaceChannel(e.Channel)
		if spaceChannel != nil {
			evict(client, d, spaceChannel.SpaceID)
		}
	}
}

func onDisconnect(client *centrifuge.Client, d *deps) func(centrifuge.DisconnectEvent) {
	return func(e centrifuge.DisconnectEvent) {
		for _, channel := range client.Channels() {
			spaceChannel := channels.AsSpaceChannel(channel)
			if spaceChannel != nil {
				evict(client, d, spaceChannel.SpaceID)
			}
		}
	}
}

// evict is safe to reach twice for one connection (unsubscribe racing
// disconnect); the registry treats the second call as a no-op.
func evict(client *centrifuge.Client, d *deps, spaceID string) {
	left, tornDown := d.registry.Evict(spaceID, client.UserID(), client.ID())

	if left && !tornDown {
		d.caster.AnnounceLeave(spaceID, client.UserID())
	}
	if left {
		log.Printf("[%v] left %v", colors.Left(client.UserID()), colors.Left(spaceID))
	}
	if tornDown {
		log.Printf("[%v] space emptied, state torn down", colors.Left(spaceID))
	}
}

func onRPC(client *centrifuge.Client, d *deps) func(centrifuge.RPCEvent, centrifuge.RPCCallback) {
	return func(e centrifuge.RPCEvent, cb centrifuge.RPCCallback) {
		switch e.Method {
		case "movement":
			cb(centrifuge.RPCReply{Data: handleMovement(client, d, e.Data)}, nil)
		default:
			cb(centrifuge.RPCReply{}, centrifuge.ErrorMethodNotFound)
		}
	}
}

type messageEnvelope struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

func onMessage(client *centrifuge.Client, d *deps) func(centrifuge.MessageEvent) {
	return func(e centrifuge.MessageEvent) {
		var envelope messageEnvelope
		if err := json.Unmarshal(e.Data, &envelope); err != nil || envelope.Type != "movement" {
			client.Send(broadcast.MoveRejected("malformed message"))
			return
		}

		client.Send(handleMovement(client, d, envelope.Message))
	}
}

func onPresenceStats() func(centrifuge.PresenceStatsEvent, centrifuge.PresenceStatsCallback) {
	return func(e centrifuge.PresenceStatsEvent, cb centrifuge.PresenceStatsCallback) {
		if channels.IsMain(e.Channel) {
			cb(centrifuge.PresenceStatsReply{}, nil)
		} else {
			cb(centrifuge.PresenceStatsReply{}, centrifuge.ErrorPermissionDenied)
		}
	}
}
