package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lingua/backend/internal/api/handler"
	"lingua/backend/internal/chat"
	"lingua/backend/internal/config"
	"lingua/backend/internal/ledger"
	"lingua/backend/internal/localization"
	"lingua/backend/internal/models"
	"lingua/backend/internal/moderation"
	"lingua/backend/internal/observability"
	"lingua/backend/internal/registry"
	"lingua/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DBConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ChatRoom{},
		&models.RoomRating{},
		&models.Message{},
		&models.Correction{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	log.Info().Msg("database and Redis connections established, migrations complete")
	return db, rdb
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: Error loading .env file")
	}

	cfg := config.LoadConfigOrPanic()
	observability.InitLogger(cfg.AppConfig.APPName, cfg.AppConfig.Env)
	log.Info().Msg("starting Lingua backend")

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	led := ledger.NewService(s)
	reg := registry.NewService(s, led)
	ch := chat.NewService(s, reg, led)
	mod := moderation.NewService(s)

	langs, err := localization.NewLanguages(cfg.AppConfig.LanguagesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load supported languages")
	}

	if cfg.AppConfig.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	h := handler.NewHandler(reg, led, ch, mod, s, langs)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.AppConfig.Port),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
