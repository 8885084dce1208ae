package config

import (
	"fmt"

	"github.com/jinzhu/configor"
)

const (
	// Points
	InitialPoints    = 50
	ChatEntryCost    = 10
	CorrectionReward = 1

	// Ratings
	DefaultUserRating = 0
	DefaultRoomRating = 3
	MinRating         = 0
	MaxRating         = 5

	// Moderation
	ReportsThresholdForBan = 3
)

type Config struct {
	AppConfig AppConfig
	DBConfig  DBConfig
	Redis     RedisConfig
}

type AppConfig struct {
	APPName string `default:"lingua-backend"`
	Port    int    `default:"8080" env:"APP_PORT"`
	Env     string `default:"development" env:"APP_ENV"`
	// LanguagesFile optionally points at a JSON array of supported
	// language names; empty means the built-in defaults.
	LanguagesFile string `default:"" env:"LANGUAGES_FILE"`
}

type DBConfig struct {
	Host     string `default:"localhost" env:"DB_HOST"`
	DataBase string `default:"lingua" env:"DB_NAME"`
	User     string `default:"postgres" env:"DB_USER"`
	Password string `default:"password" env:"DB_PASSWORD"`
	Port     uint   `default:"5432" env:"DB_PORT"`
	SSLMode  string `default:"disable" env:"DB_SSL"`
}

type RedisConfig struct {
	Addr     string `default:"localhost:6379" env:"REDIS_ADDR"`
	Password string `default:"" env:"REDIS_PASSWORD"`
	DB       int    `default:"0" env:"REDIS_DB"`
}

// LoadConfigOrPanic reads configuration from the environment, falling back
// to the struct defaults for anything unset.
func LoadConfigOrPanic() Config {
	var cfg = Config{}
	configor.Load(&cfg)
	return cfg
}

// DSN builds the Postgres connection string for gorm.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.DataBase, c.Port, c.SSLMode)
}
