package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Config struct {
	Port            string
	JWTSecret       string
	ArenaAPIURL     string
	ResolverBackend string
	OracleBackend   string
	SpaceDir        string
	QueryTimeout    time.Duration
	AvatarWidth     int
	AvatarHeight    int
	AllowGuests     bool
	DB              DBConfig
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Print("No .env file found, reading configuration from the environment")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		JWTSecret:       secret,
		ArenaAPIURL:     getenv("ARENA_API_URL", "http://localhost:3000/api/v1"),
		ResolverBackend: getenv("RESOLVER_BACKEND", "api"),
		OracleBackend:   getenv("ORACLE_BACKEND", "api"),
		SpaceDir:        getenv("SPACE_DIR", "./spaces"),
		QueryTimeout:    time.Duration(getenvInt("QUERY_TIMEOUT_MS", 2000)) * time.Millisecond,
		AvatarWidth:     getenvInt("AVATAR_WIDTH", 1),
		AvatarHeight:    getenvInt("AVATAR_HEIGHT", 1),
		AllowGuests:     os.Getenv("ALLOW_GUESTS") == "true",
		DB: DBConfig{
			Host:     getenv("POSTGRES_HOST", "localhost"),
			Port:     getenv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Name:     os.Getenv("POSTGRES_DB"),
		},
	}
}

func getenv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("%v must be an integer, got %q", key, value)
	}
	return parsed
}
