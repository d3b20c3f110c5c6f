package config

import (
	"os"
	"time"

	pkgcfg "github.com/Skotchmaster/resident_hub/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	KafkaBrokers []string

	AuditESURL      string
	AuditESUser     string
	AuditESPassword string

	SeedAdminEmail    string
	SeedAdminPassword string
}

func Load() Config {
	return Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "auth"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		AccessTTL:        pkgcfg.EnvDurationDefault("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:       pkgcfg.EnvDurationDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),

		AuditESURL:      os.Getenv("AUDIT_ES_URL"),
		AuditESUser:     os.Getenv("AUDIT_ES_USER"),
		AuditESPassword: os.Getenv("AUDIT_ES_PASSWORD"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

// MustValidate enforces the startup invariants: signing material present and
// refresh lifetime strictly longer than access lifetime.
func (c Config) MustValidate() {
	pkgcfg.MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	pkgcfg.MustNonEmptyBytes(c.JWTAccessSecret, "JWT_SECRET")
	pkgcfg.MustNonEmptyBytes(c.JWTRefreshSecret, "JWT_REFRESH_SECRET")
	pkgcfg.MustTTLOrder(c.AccessTTL, c.RefreshTTL)
}
