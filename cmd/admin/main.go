package main

import (
	"context"
	"fmt"
	"os"

	"lingua/backend/internal/config"
	"lingua/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Admin CLI for the operations regular users can never perform: explicit
// user deletion and manual ban management.
func main() {
	godotenv.Load()
	cfg := config.LoadConfigOrPanic()

	db, err := gorm.Open(postgres.Open(cfg.DBConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	storageSvc := storage.NewStorageService(db, rdb)

	if len(os.Args) < 3 {
		fmt.Println("Usage: admin <delete-user|ban|unban> <user_id>")
		os.Exit(1)
	}

	command, userID := os.Args[1], os.Args[2]

	switch command {
	case "delete-user":
		if err := storageSvc.DeleteUser(userID); err != nil {
			log.Fatal().Err(err).Msg("error deleting user")
		}
		fmt.Printf("User %s has been deleted.\n", userID)
	case "ban":
		if err := storageSvc.BanUser(userID); err != nil {
			log.Fatal().Err(err).Msg("error banning user")
		}
		fmt.Printf("User %s has been banned.\n", userID)
	case "unban":
		if err := storageSvc.UnbanUser(userID); err != nil {
			log.Fatal().Err(err).Msg("error unbanning user")
		}
		fmt.Printf("User %s has been unbanned.\n", userID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
