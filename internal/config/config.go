package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort string

	DBDriver   string
	MySQLHost  string
	MySQLPort  string
	MySQLDB    string
	MySQLUser  string
	MySQLPass  string
	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs      int
	ScoreCacheTTLSecs int

	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int
	BcryptCost    int

	AllowedOrigins []string
	LogLevel       string

	AdminEmail    string
	AdminPassword string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// getint keeps the default when the variable is unset or not a number.
func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Load() *Config {
	return &Config{
		AppPort: getenv("APP_PORT", "8080"),

		DBDriver:   getenv("DB_DRIVER", "mysql"),
		MySQLHost:  getenv("MYSQL_HOST", "mysql"),
		MySQLPort:  getenv("MYSQL_PORT", "3306"),
		MySQLDB:    getenv("MYSQL_DB", "creditbureau"),
		MySQLUser:  getenv("MYSQL_USER", "creditbureau"),
		MySQLPass:  getenv("MYSQL_PASS", "creditbureau"),
		SQLitePath: getenv("SQLITE_PATH", "creditbureau.db"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs:      getint("IDEMPOTENCY_TTL_SECONDS", 300),
		ScoreCacheTTLSecs: getint("SCORE_CACHE_TTL_SECONDS", 600),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getenv("JWT_ISSUER", "creditbureau"),
		JWTTTLMinutes: getint("JWT_TTL_MINUTES", 60),
		BcryptCost:    getint("BCRYPT_COST", 10),

		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:5173")),
		LogLevel:       getenv("LOG_LEVEL", "info"),

		AdminEmail:    getenv("ADMIN_EMAIL", "admin@creditbureau.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (mysql|sqlite)", c.DBDriver)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTTTLMinutes <= 0 {
		return errors.New("JWT_TTL_MINUTES must be positive")
	}
	if c.IdempTTLSecs <= 0 || c.ScoreCacheTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS and SCORE_CACHE_TTL_SECONDS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}

func (c *Config) JWTTTL() time.Duration { return time.Duration(c.JWTTTLMinutes) * time.Minute }

func (c *Config) IdempTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) ScoreCacheTTL() time.Duration { return time.Duration(c.ScoreCacheTTLSecs) * time.Second }
