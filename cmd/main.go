package main

import (
	"log"

	"github.com/centrifugal/centrifuge"
	"github.com/gin-gonic/gin"

	"github.com/tilespace/server/internal/arena"
	"github.com/tilespace/server/internal/broadcast"
	"github.com/tilespace/server/internal/config"
	"github.com/tilespace/server/internal/gate"
	"github.com/tilespace/server/internal/movement"
	"github.com/tilespace/server/internal/presence"
)

type deps struct {
	cfg      config.Config
	gate     *gate.Gate
	registry *presence.Registry
	arbiter  *movement.Arbiter
	caster   *broadcast.Broadcaster
}

func main() {
	cfg := config.LoadConfig()

	router := gin.Default()
	router.SetTrustedProxies(nil)

	node, err := centrifuge.New(centrifugeMainConfig())
	if err != nil {
		log.Fatal(err)
	}

	d := buildDeps(cfg, node)

	node.OnConnect(func(client *centrifuge.Client) {
		client.OnPresenceStats(onPresenceStats())
		client.OnSubscribe(onSubscribe(client, d))
		client.OnUnsubscribe(onUnsubscribe(client, d))
		client.OnRPC(onRPC(client, d))
		client.OnMessage(onMessage(client, d))
		client.OnDisconnect(onDisconnect(client, d))
	})

	if err := node.Run(); err != nil {
		log.Fatal(err)
	}

	wsHandler := centrifuge.NewWebsocketHandler(node, wsMainConfig())

	router.GET("/", root)
	router.GET("/healthz", healthz)
	router.GET(socketPath, gin.WrapH(auth(d, wsHandler)))

	router.Run("0.0.0.0:" + cfg.Port)
}

func buildDeps(cfg config.Config, node *centrifuge.Node) *deps {
	api := arena.NewAPI(cfg.ArenaAPIURL)

	var resolver arena.Resolver = api
	if cfg.ResolverBackend == "db" {
		dbResolver, err := arena.NewDBResolver(cfg.DB, []byte(cfg.JWTSecret))
		if err != nil {
			log.Fatal(err)
		}
		resolver = dbResolver
	}

	var oracle arena.Oracle = api
	if cfg.OracleBackend == "local" {
		localOracle, err := arena.NewLocalOracleFromDir(cfg.SpaceDir)
		if err != nil {
			log.Fatal(err)
		}
		oracle = localOracle
	}

	registry := presence.NewRegistry(resolver)

	return &deps{
		cfg:      cfg,
		gate:     gate.New(resolver, []byte(cfg.JWTSecret), cfg.QueryTimeout),
		registry: registry,
		arbiter:  movement.NewArbiter(registry, oracle, cfg.AvatarWidth, cfg.AvatarHeight),
		caster: broadcast.New(func(channel string, data []byte) {
			node.Publish(channel, data)
		}),
	}
}
