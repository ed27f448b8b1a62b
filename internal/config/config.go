package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	JWTSecret      string
	HTTPAddr       string
	Environment    string
	MigrationsPath string
	TokenTTL       time.Duration
	GridHourFrom   int
	GridHourTo     int
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		TokenTTL:       24 * time.Hour,
		GridHourFrom:   8,
		GridHourTo:     22,
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8000"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "./migrations"
	}

	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("TOKEN_TTL_HOURS must be a positive integer")
		}
		cfg.TokenTTL = time.Duration(hours) * time.Hour
	}
	if v := os.Getenv("GRID_HOUR_FROM"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("GRID_HOUR_FROM must be an integer")
		}
		cfg.GridHourFrom = hour
	}
	if v := os.Getenv("GRID_HOUR_TO"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("GRID_HOUR_TO must be an integer")
		}
		cfg.GridHourTo = hour
	}
	if cfg.GridHourFrom < 0 || cfg.GridHourTo > 23 || cfg.GridHourFrom > cfg.GridHourTo {
		return nil, fmt.Errorf("grid hour range %d-%d is invalid", cfg.GridHourFrom, cfg.GridHourTo)
	}

	// Обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}
