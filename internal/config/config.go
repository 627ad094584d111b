package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	TimeZone    string // zona horaria para las fechas de ventas y pagos
}

func Load() *Config {
	// .env es opcional, en producción las variables vienen del entorno
	if err := godotenv.Load(); err == nil {
		log.Println("Variables cargadas desde .env")
	}

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=creditos port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		TimeZone:    getEnv("APP_TIMEZONE", "America/Argentina/Buenos_Aires"),
	}

	// Controles mínimos antes de arrancar
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Falta la variable de entorno JWT_SECRET, es obligatoria.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET debe tener al menos 32 caracteres.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=creditos port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN usa el valor por defecto, configurá tu propia conexión para producción.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
