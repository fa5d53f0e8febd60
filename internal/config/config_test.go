package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("RATING_CACHE_DRIVER", "")
	t.Setenv("WEEK_START", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("SEED_DEMO_DATA", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.StorageDriver)
	}
	if cfg.RatingCacheDriver != RatingCacheMemory {
		t.Fatalf("expected in-process rating cache by default, got %q", cfg.RatingCacheDriver)
	}
	if cfg.WeekStart != time.Monday {
		t.Fatalf("expected monday week start, got %s", cfg.WeekStart)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
	}
	if !cfg.SeedDemoData {
		t.Fatalf("expected demo data to be seeded in dev")
	}
	if cfg.WarmupMaxWorkers != 4 {
		t.Fatalf("unexpected warmup workers: %d", cfg.WarmupMaxWorkers)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_ProdDoesNotSeedByDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SEED_DEMO_DATA", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SeedDemoData {
		t.Fatalf("expected SeedDemoData=false in prod by default")
	}
}

func TestLoad_DriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})

	t.Run("unknown rating cache driver", func(t *testing.T) {
		t.Setenv("RATING_CACHE_DRIVER", "memcached")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown RATING_CACHE_DRIVER")
		}
	})

	t.Run("redis rating cache", func(t *testing.T) {
		t.Setenv("RATING_CACHE_DRIVER", " Redis ")
		t.Setenv("REDIS_URL", "redis://cache:6379/2")
		t.Setenv("RATING_CACHE_TTL", "1h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RatingCacheDriver != RatingCacheRedis || cfg.RedisURL != "redis://cache:6379/2" {
			t.Fatalf("unexpected redis config %q %q", cfg.RatingCacheDriver, cfg.RedisURL)
		}
		if cfg.RatingCacheTTL != time.Hour {
			t.Fatalf("unexpected rating cache ttl %s", cfg.RatingCacheTTL)
		}
	})

	t.Run("postgres storage", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DB_URL", "postgres://u:p@db:5432/league")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StoragePostgres {
			t.Fatalf("unexpected storage driver %q", cfg.StorageDriver)
		}
	})
}

func TestLoad_WeekStart(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Setenv("WEEK_START", "Sunday")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WeekStart != time.Sunday {
		t.Fatalf("expected sunday, got %s", cfg.WeekStart)
	}

	t.Setenv("WEEK_START", "friday")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported WEEK_START")
	}
}

func TestLoad_NumericValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cases := map[string]string{
		"WARMUP_MAX_WORKERS":                "0",
		"REDIS_CIRCUIT_FAILURE_COUNT":       "zero",
		"CACHE_TTL":                         "-1s",
		"APP_READ_TIMEOUT":                  "soon",
		"DB_DISABLE_PREPARED_BINARY_RESULT": "not-bool",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_ObservabilityRequirements(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("uptrace requires dsn", func(t *testing.T) {
		t.Setenv("UPTRACE_ENABLED", "true")
		t.Setenv("UPTRACE_DSN", "")
		t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
		}
	})

	t.Run("uptrace dsn from otlp headers", func(t *testing.T) {
		t.Setenv("UPTRACE_ENABLED", "true")
		t.Setenv("UPTRACE_DSN", "")
		t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `x-other=1, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
			t.Fatalf("unexpected dsn %q", cfg.UptraceDSN)
		}
	})

	t.Run("pyroscope requires server", func(t *testing.T) {
		t.Setenv("PYROSCOPE_ENABLED", "true")
		t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
		}
	})

	t.Run("pyroscope app name defaults to service name", func(t *testing.T) {
		t.Setenv("APP_SERVICE_NAME", "doubles-league-api-test")
		t.Setenv("PYROSCOPE_ENABLED", "true")
		t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
		t.Setenv("PYROSCOPE_APP_NAME", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PyroscopeAppName != "doubles-league-api-test" {
			t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
		}
	})

	t.Run("pprof addr falls back when blank", func(t *testing.T) {
		t.Setenv("PPROF_ENABLED", "true")
		t.Setenv("PPROF_ADDR", "  ")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PprofAddr != ":6060" {
			t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
		}
	})
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,http://localhost:5173 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
		t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "APP_SERVICE_NAME=from-dotenv\nDOUBLES_DOTENV_ONLY=loaded\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("APP_SERVICE_NAME", "from-env")
	t.Setenv("DOUBLES_DOTENV_ONLY", "")
	if err := os.Unsetenv("DOUBLES_DOTENV_ONLY"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("APP_SERVICE_NAME"); got != "from-env" {
		t.Fatalf("dotenv must not override real env, got %q", got)
	}
	if got := os.Getenv("DOUBLES_DOTENV_ONLY"); got != "loaded" {
		t.Fatalf("expected dotenv value to be loaded, got %q", got)
	}
}

func TestLoad_QStash(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.QStashEnabled || cfg.QStashWarmDelay != 30*time.Second || cfg.QStashRetries != 3 {
			t.Fatalf("unexpected qstash defaults: %+v", cfg)
		}
	})

	t.Run("enabled requires token target and job token", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without QSTASH_TOKEN")
		}

		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://api.example.com")
		t.Setenv("INTERNAL_JOB_TOKEN", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without INTERNAL_JOB_TOKEN")
		}

		t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.QStashTargetBaseURL != "https://api.example.com" {
			t.Fatalf("unexpected target %q", cfg.QStashTargetBaseURL)
		}
	})
}
