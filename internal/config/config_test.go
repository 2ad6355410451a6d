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

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
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
	t.Setenv("APP_SERVICE_NAME", "pgc-tour-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "pgc-tour-api-test" {
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
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
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

func TestLoad_CacheTTLParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults per bucket", func(t *testing.T) {
		t.Setenv("CACHE_TTL_LIVE", "")
		t.Setenv("CACHE_TTL_RECENT", "")
		t.Setenv("CACHE_TTL_HISTORICAL", "")
		t.Setenv("CACHE_TTL_SEASON", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LiveCacheTTL != 2*time.Minute {
			t.Fatalf("unexpected default live ttl: %s", cfg.LiveCacheTTL)
		}
		if cfg.RecentCacheTTL != 30*time.Minute {
			t.Fatalf("unexpected default recent ttl: %s", cfg.RecentCacheTTL)
		}
		if cfg.HistoricalCacheTTL != 24*time.Hour {
			t.Fatalf("unexpected default historical ttl: %s", cfg.HistoricalCacheTTL)
		}
		if cfg.SeasonCacheTTL != time.Hour {
			t.Fatalf("unexpected default season ttl: %s", cfg.SeasonCacheTTL)
		}
	})

	t.Run("override", func(t *testing.T) {
		t.Setenv("CACHE_TTL_LIVE", "45s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LiveCacheTTL != 45*time.Second {
			t.Fatalf("unexpected live ttl: %s", cfg.LiveCacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL_LIVE", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL_LIVE")
		}
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL_LIVE", "-1s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for non-positive CACHE_TTL_LIVE")
		}
	})
}

func TestLoad_DataGolfConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("DATAGOLF_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DataGolfEnabled {
			t.Fatalf("expected DataGolfEnabled=false by default")
		}
	})

	t.Run("enabled requires key", func(t *testing.T) {
		t.Setenv("DATAGOLF_ENABLED", "true")
		t.Setenv("DATAGOLF_KEY", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when DATAGOLF_ENABLED=true without DATAGOLF_KEY")
		}
	})

	t.Run("enabled with valid values", func(t *testing.T) {
		t.Setenv("DATAGOLF_ENABLED", "true")
		t.Setenv("DATAGOLF_KEY", "dg-key")
		t.Setenv("DATAGOLF_TIMEOUT", "15s")
		t.Setenv("DATAGOLF_MAX_RETRIES", "2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DataGolfEnabled {
			t.Fatalf("expected DataGolfEnabled=true")
		}
		if cfg.DataGolfKey != "dg-key" {
			t.Fatalf("unexpected datagolf key")
		}
		if cfg.DataGolfTimeout != 15*time.Second {
			t.Fatalf("unexpected datagolf timeout: %s", cfg.DataGolfTimeout)
		}
		if cfg.DataGolfMaxRetries != 2 {
			t.Fatalf("unexpected datagolf max retries: %d", cfg.DataGolfMaxRetries)
		}
	})
}
