package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr  string
	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	KafkaAddress string
	ESURL        string
	ESUser       string
	ESPassword   string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServerAddr:  getenv("SERVER_ADDR", ":8080"),
		DatabaseURL: must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),

		JWTSecret: []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		TokenTTL:  time.Duration(getenvInt("TOKEN_TTL_DAYS", 15)) * 24 * time.Hour,

		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}
