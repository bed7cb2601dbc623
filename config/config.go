package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port      string
	DBPath    string // vacío: historial solo en memoria
	RedisAddr string // vacío: cache en memoria
	RateLimit int    // requests por minuto por IP
	OpenAIKey string // vacío: explicaciones estáticas
}

func Load() Config {
	// .env es opcional; las variables ya exportadas tienen prioridad
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	rateLimit := 5
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("invalid RATE_LIMIT %q", v)
		}
		rateLimit = n
	}

	return Config{
		Port:      port,
		DBPath:    os.Getenv("DB_PATH"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		RateLimit: rateLimit,
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
	}
}
