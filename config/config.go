package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	DbDsn           string
	TgToken         string
	SheetURL        string
	SheetToken      string
	HTTPAddr        string
	UploadDir       string
	PublicURL       string
	LogLevel        string
	ConventionsFile string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig возвращает singleton экземпляр конфигурации
func GetConfig() *Config {
	once.Do(func() {
		// .env is optional, the environment wins
		_ = godotenv.Load()
		config = FromEnv()
	})
	return config
}

// FromEnv reads the configuration from the process environment.
func FromEnv() *Config {
	return &Config{
		DbDsn:           os.Getenv("DB_DSN"),
		TgToken:         os.Getenv("TG_TOKEN"),
		SheetURL:        os.Getenv("SHEET_URL"),
		SheetToken:      os.Getenv("SHEET_TOKEN"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8005"),
		UploadDir:       getenv("UPLOAD_DIR", "uploads"),
		PublicURL:       getenv("PUBLIC_URL", "http://localhost:8005"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		ConventionsFile: os.Getenv("CONVENTIONS_FILE"),
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
