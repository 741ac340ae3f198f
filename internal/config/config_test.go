package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_DataBackendValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default csv", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DataBackend != BackendCSV {
			t.Fatalf("expected default backend csv, got %q", cfg.DataBackend)
		}
		if cfg.PerformancePath != "data/performance.csv" {
			t.Fatalf("unexpected default performance path: %q", cfg.PerformancePath)
		}
		if cfg.DataSeed != 42 {
			t.Fatalf("expected default seed 42, got %d", cfg.DataSeed)
		}
	})

	t.Run("invalid backend", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "dynamo")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DATA_BACKEND")
		}
	})

	t.Run("memory backend accepted", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "Memory")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DataBackend != BackendMemory {
			t.Fatalf("expected memory backend, got %q", cfg.DataBackend)
		}
	})
}

func TestLoad_AllowedClubsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("DATA_ALLOWED_CLUBS", " Nacional, Peñarol ,Danubio ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.AllowedClubs) != 3 {
		t.Fatalf("unexpected allowed clubs length: %d", len(cfg.AllowedClubs))
	}
	if cfg.AllowedClubs[1] != "Peñarol" {
		t.Fatalf("unexpected second club: %q", cfg.AllowedClubs[1])
	}
}

func TestLoad_SessionAndAuthDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AuthUsername != "admin" {
		t.Fatalf("unexpected default username: %q", cfg.AuthUsername)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("unexpected default session ttl: %s", cfg.SessionTTL)
	}
}

func TestLoad_SessionTTLValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SESSION_TTL", "-1h")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive SESSION_TTL")
	}
}

func TestLoad_WyscoutConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("WYSCOUT_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.WyscoutEnabled {
			t.Fatalf("expected WyscoutEnabled=false by default")
		}
	})

	t.Run("enabled requires base url and token", func(t *testing.T) {
		t.Setenv("WYSCOUT_ENABLED", "true")
		t.Setenv("WYSCOUT_BASE_URL", "")
		t.Setenv("WYSCOUT_TOKEN", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when WYSCOUT_ENABLED=true without base url/token")
		}
	})

	t.Run("enabled with required values", func(t *testing.T) {
		t.Setenv("WYSCOUT_ENABLED", "true")
		t.Setenv("WYSCOUT_BASE_URL", "https://exports.example.com")
		t.Setenv("WYSCOUT_TOKEN", "wy-token")
		t.Setenv("WYSCOUT_TIMEOUT", "15s")
		t.Setenv("WYSCOUT_MAX_RETRIES", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.WyscoutEnabled {
			t.Fatalf("expected WyscoutEnabled=true")
		}
		if cfg.WyscoutBaseURL != "https://exports.example.com" {
			t.Fatalf("unexpected wyscout base url: %q", cfg.WyscoutBaseURL)
		}
		if cfg.WyscoutTimeout != 15*time.Second {
			t.Fatalf("unexpected wyscout timeout: %s", cfg.WyscoutTimeout)
		}
		if cfg.WyscoutMaxRetries != 3 {
			t.Fatalf("unexpected wyscout retries: %d", cfg.WyscoutMaxRetries)
		}
		if cfg.WyscoutMaxExportBytes != 16<<20 {
			t.Fatalf("unexpected default export size cap: %d", cfg.WyscoutMaxExportBytes)
		}
	})
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_BetterStackRequiresEndpointWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "tablero-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "tablero-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://tablero.example.com, http://localhost:8501 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://tablero.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:8501" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")
		t.Setenv("CACHE_MAX_ENTRIES", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
		if cfg.CacheMaxEntries != 256 {
			t.Fatalf("unexpected default cache entry cap: %d", cfg.CacheMaxEntries)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})

	t.Run("negative entry cap", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "60s")
		t.Setenv("CACHE_MAX_ENTRIES", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative CACHE_MAX_ENTRIES")
		}
	})
}
