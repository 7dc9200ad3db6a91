package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"3000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Database
	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"` // postgres | sqlite
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"inventory"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBTimeZone  string `envconfig:"DB_TIMEZONE" default:"UTC"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"inventory.db"`

	// Auth
	JWTSecret string        `envconfig:"JWT_SECRET" default:"your-super-secret-key-change-in-production"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"2h"`

	// Ledger events. Kafka stays off while KAFKA_BROKERS is empty.
	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"inventory-ledger"`

	// Reports
	Currency     string `envconfig:"CURRENCY" default:"UGX"`
	BusinessName string `envconfig:"BUSINESS_NAME" default:"CKS Business Management System"`

	// Bootstrap
	SeedSampleData bool   `envconfig:"SEED_SAMPLE_DATA" default:"false"`
	AdminUsername  string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminEmail     string `envconfig:"ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword  string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, errors.Errorf("unsupported DB_DRIVER %q (use postgres or sqlite)", cfg.DBDriver)
	}
	return &cfg, nil
}

// PostgresDSN returns DATABASE_URL when set, otherwise a DSN built from the DB_* parts.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}
