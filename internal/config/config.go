package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port            string
	AllowOrigins    []string
	WorkbookPath    string
	DatabaseURL     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int
	LogLevel        string
	LogFile         string
	MaxUploadMB     int
	Operators       []string
}

// Load reads configuration from the environment. Backend selection happens
// in main: DATABASE_URL wins, then WORKBOOK_PATH, then the seeded in-memory
// store for dev.
func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "5"))
	if err != nil || ttl < 1 {
		ttl = 5
	}
	uploadMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "16"))
	if err != nil || uploadMB < 1 {
		uploadMB = 16
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		AllowOrigins:    splitList(getEnv("ALLOW_ORIGINS", "*")),
		WorkbookPath:    os.Getenv("WORKBOOK_PATH"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		CacheTTLSeconds: ttl,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", "logs/tiendafacil.log"),
		MaxUploadMB:     uploadMB,
		Operators:       splitList(getEnv("OPERATORS", "Martin,Amanda,Otro")),
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
