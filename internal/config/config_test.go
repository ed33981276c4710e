package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	strong := "a-very-long-secret-value-for-production-use"

	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{"development defaults", Config{Port: "8080", Env: "development", JWTSecret: defaultJWTSecret, JWTTTL: time.Hour}, false},
		{"missing port", Config{JWTSecret: "x", JWTTTL: time.Hour}, true},
		{"missing secret", Config{Port: "8080", JWTTTL: time.Hour}, true},
		{"zero ttl", Config{Port: "8080", JWTSecret: "x"}, true},
		{"production default secret", Config{Port: "8080", Env: "production", JWTSecret: defaultJWTSecret, JWTTTL: time.Hour, DBPassword: "s3cret!"}, true},
		{"production weak db password", Config{Port: "8080", Env: "production", JWTSecret: strong, JWTTTL: time.Hour, DBPassword: "password"}, true},
		{"production database url", Config{Port: "8080", Env: "production", JWTSecret: strong, JWTTTL: time.Hour, DatabaseURL: "postgres://u:p@db/idioms"}, false},
		{"negative rate limit", Config{Port: "8080", JWTSecret: "x", JWTTTL: time.Hour, RateLimitPerMinute: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_SSLMODE", "  DISABLE ")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 3, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}

func TestConfig_DSN(t *testing.T) {
	c := Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "idioms", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=idioms sslmode=disable TimeZone=UTC", c.DSN())

	c.DatabaseURL = "postgres://u:p@db:5432/idioms"
	assert.Equal(t, "postgres://u:p@db:5432/idioms", c.DSN())
}
