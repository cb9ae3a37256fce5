package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"COC_APP_NAME",
	"COC_APP_ENV",
	"COC_APP_PORT",
	"COC_DATABASE_DRIVER",
	"COC_DATABASE_HOST",
	"COC_DATABASE_PORT",
	"COC_DATABASE_USER",
	"COC_DATABASE_PASSWORD",
	"COC_DATABASE_DBNAME",
	"COC_DATABASE_SSLMODE",
	"COC_DATABASE_MAX_OPEN_CONNS",
	"COC_DATABASE_MAX_IDLE_CONNS",
	"COC_REDIS_ENABLED",
	"COC_COCAPI_BASE_URL",
	"COC_COCAPI_TIMEOUT",
	"COC_COCAPI_DEFAULT_WINDOW_DAYS",
	"COC_PRODUCTION_DEFAULT_CELLS_PER_MODULE",
	"COC_PRODUCTION_IDEMPOTENCY_TTL",
	"COC_SWAGGER_ENABLED",
	"COC_SWAGGER_ALLOWED_IPS",
	"COC_HTTP_CORS_ALLOW_ORIGINS",
	"COC_TELEMETRY_SAMPLING_RATIO",
	"COC_TELEMETRY_DB_LOG_FULL_SQL",
}

// clearEnv blanks every variable the tests touch; viper treats empty as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "coc-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "coc", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 30*time.Second, cfg.COCAPI.Timeout)
		assert.Equal(t, 30, cfg.COCAPI.DefaultWindowDays)
		assert.Equal(t, int64(32<<20), cfg.COCAPI.MaxResponseBytes)
		assert.Equal(t, 132, cfg.Production.DefaultCellsPerModule)
		assert.Equal(t, 24*time.Hour, cfg.Production.IdempotencyTTL)
		assert.Equal(t, "coc-backend", cfg.Telemetry.ServiceName)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("loads values from environment variables with COC prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COC_APP_NAME", "coc-test")
		t.Setenv("COC_APP_PORT", "9000")
		t.Setenv("COC_DATABASE_HOST", "testdb.local")
		t.Setenv("COC_DATABASE_PORT", "5433")
		t.Setenv("COC_DATABASE_PASSWORD", "testpass")
		t.Setenv("COC_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("COC_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("COC_REDIS_ENABLED", "true")
		t.Setenv("COC_COCAPI_BASE_URL", "https://inventory.example.com/api/coc")
		t.Setenv("COC_COCAPI_TIMEOUT", "10s")
		t.Setenv("COC_PRODUCTION_DEFAULT_CELLS_PER_MODULE", "144")
		t.Setenv("COC_PRODUCTION_IDEMPOTENCY_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "coc-test", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "https://inventory.example.com/api/coc", cfg.COCAPI.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.COCAPI.Timeout)
		assert.Equal(t, 144, cfg.Production.DefaultCellsPerModule)
		assert.Equal(t, time.Hour, cfg.Production.IdempotencyTTL)
	})

	t.Run("mysql driver defaults to port 3306", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COC_DATABASE_DRIVER", "MySQL")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DriverMySQL, cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COC_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COC_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("COC_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COC_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects relative feed url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COC_COCAPI_BASE_URL", "inventory/api")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cocapi.base_url")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COC_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("COC_APP_ENV", "production")
		t.Setenv("COC_DATABASE_PASSWORD", "secure-password")
		t.Setenv("COC_DATABASE_SSLMODE", "require")
		t.Setenv("COC_SWAGGER_ENABLED", "false")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COC_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COC_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COC_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("fails if swagger enabled without IP restriction in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COC_SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled")
	})

	t.Run("passes with swagger restricted to IPs in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COC_SWAGGER_ENABLED", "true")
		t.Setenv("COC_SWAGGER_ALLOWED_IPS", "10.0.0.1")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.Equal(t, []string{"10.0.0.1"}, cfg.Swagger.AllowedIPs)
	})

	t.Run("rejects full SQL logging in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("COC_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates postgres URL", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		u, err := url.Parse(dsn)
		require.NoError(t, err)
		assert.Equal(t, "postgres", u.Scheme)
		assert.Equal(t, "localhost:5432", u.Host)
		assert.Equal(t, "/testdb", u.Path)
		assert.Equal(t, "disable", u.Query().Get("sslmode"))
		assert.Equal(t, dsn, cfg.MigrationURL())
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("generates mysql DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverMySQL,
			Host:     "db.local",
			Port:     3306,
			User:     "coc",
			Password: "secret",
			DBName:   "coc",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "coc:secret@tcp(db.local:3306)/coc")
		assert.Contains(t, dsn, "parseTime=true")
		assert.Equal(t, "mysql://"+dsn, cfg.MigrationURL())
	})
}
