package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDriver string
	DBDSN    string

	JWTSecret   string
	CORSOrigins []string

	LogFile  string
	LogLevel string

	Location *time.Location

	FatigueMaxContinuousHours float64
	FatigueMinRestHours       float64
	FleetFitnessConcurrency   int
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, relying on env vars")
	}

	env := Env{
		AppAddr:  getEnv("APP_ADDR", ":8080"),
		GinMode:  getEnv("GIN_MODE", ""),
		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:    getEnv("DB_DSN", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		LogFile:  getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		FatigueMaxContinuousHours: getFloat("FATIGUE_MAX_CONTINUOUS_HOURS", 0),
		FatigueMinRestHours:       getFloat("FATIGUE_MIN_REST_HOURS", 0),
		FleetFitnessConcurrency:   getInt("FLEET_FITNESS_CONCURRENCY", 8),
	}

	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	}

	env.Location = time.Local
	if tz := getEnv("TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			logrus.WithError(err).Warnf("unknown TIMEZONE %q, using local", tz)
		} else {
			env.Location = loc
		}
	}

	if env.DBDSN == "" {
		env.DBDSN = defaultDSN(env.DBDriver)
	}
	return env
}

func defaultDSN(driver string) string {
	if driver == "postgres" {
		return "host=localhost user=postgres password=password dbname=fleetdesk port=5432 sslmode=disable TimeZone=UTC"
	}
	return "root:@tcp(127.0.0.1:3306)/fleetdesk?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
}

func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
