package main

import (
	"context"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/playmatatu/plinko/internal/admin"
	"github.com/playmatatu/plinko/internal/api"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/database"
	"github.com/playmatatu/plinko/internal/migrations"
	"github.com/playmatatu/plinko/internal/redis"
	"github.com/playmatatu/plinko/internal/table"
	"github.com/playmatatu/plinko/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Database is optional: without it the table runs without history or admin API
	var db *sqlx.DB
	if conn, err := database.Connect(cfg.DatabaseURL); err == nil {
		db = conn
		defer db.Close()
	} else if errors.Is(err, database.ErrNotConfigured) {
		log.Println("[DB] DATABASE_URL not set; round history and admin API disabled")
	} else {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if db != nil && cfg.MigrateOnStart {
		log.Println("[MIGRATE] Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, migrations.DefaultDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Redis is optional: without it events go straight to local displays
	var rdb *goredis.Client
	if conn, err := redis.Connect(cfg.RedisURL); err == nil {
		rdb = conn
		defer rdb.Close()
	} else if errors.Is(err, redis.ErrNotConfigured) {
		log.Println("[REDIS] REDIS_URL not set; stats disabled, events delivered locally")
	} else {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	tableCfg := cfg.Table
	if db != nil {
		if overridden, err := admin.LoadTableConfig(db, cfg.Table); err != nil {
			log.Printf("[CONFIG] Runtime config unavailable, using startup config: %v", err)
		} else if err := overridden.Validate(); err != nil {
			log.Printf("[CONFIG] Ignoring runtime config: %v", err)
		} else {
			tableCfg = overridden
		}
	}

	mgr, err := table.NewManager(db, rdb, tableCfg, table.Options{
		TickRateHz: cfg.TickRateHz,
		Seed:       cfg.Seed,
	})
	if err != nil {
		log.Fatalf("Invalid table configuration: %v", err)
	}
	mgr.SetBroadcaster(ws.TableHub)

	ws.StartEventSubscriber(ctx, rdb, ws.TableHub)
	go mgr.Run(ctx)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, db, cfg, mgr)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Plinko table server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
