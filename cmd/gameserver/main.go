// Package main runs the skirmish server. server.mode selects which parts
// run in this process:
//
//	standalone  battle service, gRPC, HTTP and Telnet in one process
//	backend     battle service behind gRPC and HTTP
//	frontend    Telnet only, forwarding to a backend over gRPC
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cory-johannsen/skirmish/internal/api"
	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/frontend/handlers"
	"github.com/cory-johannsen/skirmish/internal/frontend/telnet"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/command"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/session"
	"github.com/cory-johannsen/skirmish/internal/gameserver"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/server"
	"github.com/cory-johannsen/skirmish/internal/storage"
	"github.com/cory-johannsen/skirmish/internal/storage/memory"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
)

func main() {
	start := time.Now()
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	var battler gameserver.Battler
	if cfg.Server.Mode == "frontend" {
		conn, err := grpc.NewClient(cfg.GameServer.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			logger.Fatal("dialing battle backend", zap.String("addr", cfg.GameServer.Addr()), zap.Error(err))
		}
		defer conn.Close()
		battler = gameserver.NewGRPCClient(conn)
	} else {
		svc, health := buildBackend(ctx, cfg, logger, lifecycle)
		battler = svc
		addGRPC(cfg, svc, logger, lifecycle)
		addHTTP(cfg, svc, health, logger, lifecycle)
	}

	if cfg.Server.Mode != "backend" {
		bh := handlers.NewBattleHandler(battler, session.NewManager(), command.DefaultRegistry(),
			observability.Component(logger, "telnet"))
		acceptor := telnet.NewAcceptor(cfg.Telnet, bh, observability.Component(logger, "telnet"))
		lifecycle.Add("telnet", &server.FuncService{
			StartFn: acceptor.ListenAndServe,
			StopFn:  acceptor.Stop,
		})
	}

	logger.Info("server initialized",
		zap.String("mode", cfg.Server.Mode),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// buildBackend loads content, opens storage and assembles the battle
// service. Background work it starts is registered with lifecycle.
func buildBackend(ctx context.Context, cfg config.Config, logger *zap.Logger, lifecycle *server.Lifecycle) (*gameserver.Service, api.HealthFunc) {
	loadStart := time.Now()
	cat, err := catalog.Load(ctx, cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("skills", len(cat.Skills.All())),
		zap.Int("zones", cat.Zones.ZoneCount()),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	store, health := buildStore(ctx, cfg, logger, lifecycle)
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), observability.Component(logger, "dice"))

	scripts := scripting.NewManager(roller, observability.Component(logger, "scripting"))
	if err := gameserver.LoadScripts(scripts, cat.Zones.Zones(), cfg.Content.ScriptsDir, logger); err != nil {
		logger.Fatal("loading scripts", zap.Error(err))
	}

	combatLogger := observability.Component(logger, "combat")
	engine := combat.NewEngine(cat, roller,
		combat.WithIdleTimeout(cfg.Battle.IdleTimeout),
		combat.WithLogger(combatLogger),
	)
	sweeper := combat.NewSweeper(engine, cfg.Battle.SweepInterval, func(actor string) {
		combatLogger.Info("idle battle evicted", observability.Actor(actor))
	})
	stopSweeper := make(chan struct{})
	lifecycle.Add("sweeper", &server.FuncService{
		StartFn: func() error {
			sweeper.Start(ctx)
			<-stopSweeper
			return nil
		},
		StopFn: func() {
			sweeper.Stop()
			scripts.Close()
			close(stopSweeper)
		},
	})

	svc := gameserver.NewService(cat, engine, store, scripts, roller, observability.Component(logger, "battle"))
	return svc, health
}

// buildStore selects the character store named by storage.driver.
func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger, lifecycle *server.Lifecycle) (storage.CharacterStore, api.HealthFunc) {
	if cfg.Storage.Driver == "memory" {
		logger.Warn("using in-memory character storage; progress is lost on restart")
		return memory.NewStore(), nil
	}

	dbStart := time.Now()
	db, err := postgres.Open(ctx, cfg.Database, observability.Component(logger, "postgres"))
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			db.Monitor(monitorCtx, 30*time.Second)
			return nil
		},
		StopFn: func() {
			stopMonitor()
			db.Close()
		},
	})

	health := func(ctx context.Context) error { return db.Ping(ctx, 2*time.Second) }
	return db.Characters(), health
}

func addGRPC(cfg config.Config, svc gameserver.Battler, logger *zap.Logger, lifecycle *server.Lifecycle) {
	grpcLogger := observability.Component(logger, "grpc")
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(gameserver.LoggingInterceptor(grpcLogger)))
	gameserver.RegisterBattleServiceServer(grpcServer, gameserver.NewGRPCServer(svc, grpcLogger))

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GameServer.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GameServer.Addr(), err)
			}
			grpcLogger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
			return grpcServer.Serve(lis)
		},
		StopFn: grpcServer.GracefulStop,
	})
}

func addHTTP(cfg config.Config, svc gameserver.Battler, health api.HealthFunc, logger *zap.Logger, lifecycle *server.Lifecycle) {
	httpLogger := observability.Component(logger, "http")
	srv := &http.Server{
		Addr:              cfg.GameServer.HTTPAddr(),
		Handler:           api.NewRouter(api.NewBattleHandler(svc, health, httpLogger), httpLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lifecycle.Add("http", &server.FuncService{
		StartFn: func() error {
			httpLogger.Info("HTTP API listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		StopFn: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		},
	})
}
