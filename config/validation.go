package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// driverRequirements lists the settings each store driver cannot run without
var driverRequirements = map[string][]struct {
	field string
	value func(*Config) string
}{
	StorePostgres: {
		{"DB_HOST", func(c *Config) string { return c.DBHost }},
		{"DB_PORT", func(c *Config) string { return c.DBPort }},
		{"DB_USER", func(c *Config) string { return c.DBUser }},
		{"DB_NAME", func(c *Config) string { return c.DBName }},
	},
	StoreSQLite: {
		{"SQLITE_PATH", func(c *Config) string { return c.SQLitePath }},
	},
	StoreMongo: {
		{"MONGO_URI", func(c *Config) string { return c.MongoURI }},
		{"MONGO_DATABASE", func(c *Config) string { return c.MongoDatabase }},
	},
	StoreMemory: {},
}

// ValidateConfig checks if the configuration meets the requirements for env
func ValidateConfig(cfg *Config, env Environment) error {
	var errs ValidationErrors

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must be a port number"})
	}

	reqs, ok := driverRequirements[cfg.StoreDriver]
	if !ok {
		errs = append(errs, ValidationError{Field: "STORE_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.StoreDriver)})
	}
	for _, req := range reqs {
		if req.value(cfg) == "" {
			errs = append(errs, ValidationError{Field: req.field, Message: "is required for store driver " + cfg.StoreDriver})
		}
	}

	if env == Production {
		switch cfg.StoreDriver {
		case StoreMemory:
			errs = append(errs, ValidationError{Field: "STORE_DRIVER", Message: "memory store is not allowed in production"})
		case StorePostgres:
			if cfg.DBPassword == "" {
				errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "db_password secret is required"})
			}
		}
	}

	if cfg.RateLimitWrites < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WRITES", Message: "must not be negative"})
	}
	if cfg.RateLimitWrites > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WINDOW", Message: "must be positive when rate limiting is on"})
	}
	if cfg.CacheTTL < 0 {
		errs = append(errs, ValidationError{Field: "CACHE_TTL", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
