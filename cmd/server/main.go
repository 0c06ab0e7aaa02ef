package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rollbound/rollbound/internal/config"
	"github.com/rollbound/rollbound/internal/events"
	"github.com/rollbound/rollbound/internal/handlers/httpapi"
	"github.com/rollbound/rollbound/internal/repositories/characters"
	"github.com/rollbound/rollbound/internal/repositories/combats"
	charService "github.com/rollbound/rollbound/internal/services/character"
	"github.com/rollbound/rollbound/internal/services/engine"
)

// logListener writes every combat notification to the process log. Push
// transports subscribe the same way.
type logListener struct{}

func (logListener) HandleEvent(event events.Event) error {
	log.Printf("event %s combat=%s game=%s", event.Type, event.CombatID, event.GameID)
	return nil
}

func (logListener) Priority() int { return 1000 }
func (logListener) ID() string    { return "log-listener" }

func main() {
	// .env is optional, real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var combatRepo combats.Repository
	var characterRepo characters.Repository
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		combatRepo = combats.NewRedisRepository(&combats.RedisRepoConfig{Client: client})
		characterRepo = characters.NewRedisRepository(&characters.RedisRepoConfig{Client: client})
		log.Println("using redis-backed stores")
	} else {
		combatRepo = combats.NewInMemoryRepository()
		characterRepo = characters.NewInMemoryRepository()
		log.Println("using in-memory stores")
	}

	bus := events.NewBus()
	bus.SubscribeAll(logListener{})

	characterSvc := charService.NewService(&charService.ServiceConfig{
		Repository: characterRepo,
	})
	engineSvc := engine.NewService(&engine.ServiceConfig{
		Repository:         combatRepo,
		CharacterService:   characterSvc,
		Bus:                bus,
		GridSize:           cfg.GridSize,
		Rules:              &cfg.Rules,
		DefaultCloseCombat: cfg.DefaultCloseCombat,
		DefaultDodge:       cfg.DefaultDodge,
	})

	router := gin.Default()
	httpapi.NewHandler(&httpapi.HandlerConfig{Engine: engineSvc}).RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Println("shutdown complete")
}
