package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string
	LogFile   string
}

func Load() Config {
	// .env is optional; plain environment variables win when both exist.
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, relying on environment variables")
	}

	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		DBDSN:     getEnv("DB_DSN", "swapi.db"), // sqlite file in project root
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		LogFile:   getEnv("LOG_FILE", "./swapi.log"),
	}
	if cfg.JWTSecret == "dev-secret-change-me" {
		log.Println("[config] JWT_SECRET is the insecure default; set a real secret in production")
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
