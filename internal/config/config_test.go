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
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev/1'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("SEASON_WINDOW_START", "")
	t.Setenv("SEASON_WINDOW_END", "")
	t.Setenv("RAPIDAPI_KEY", "")
	t.Setenv("RAPIDAPI_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.CacheBackend != CacheBackendFile || cfg.CacheDir != "data" {
		t.Fatalf("unexpected cache defaults: backend=%q dir=%q", cfg.CacheBackend, cfg.CacheDir)
	}
	if cfg.CompetitionName != "LaLiga" || cfg.CompetitionID != "ES1" {
		t.Fatalf("unexpected competition defaults: %q %q", cfg.CompetitionName, cfg.CompetitionID)
	}
	if cfg.TransfermarktBaseURL != "https://transfermarket.p.rapidapi.com" {
		t.Fatalf("unexpected base url: %q", cfg.TransfermarktBaseURL)
	}
	if cfg.TransfermarktDomain != "de" {
		t.Fatalf("unexpected domain: %q", cfg.TransfermarktDomain)
	}
	if cfg.TransfermarktTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.TransfermarktTimeout)
	}
	if cfg.RapidAPIKey != "" || cfg.RapidAPIHost != "" {
		t.Fatalf("expected empty credentials to pass through")
	}
	if cfg.AggregatorWorkers != 1 {
		t.Fatalf("expected sequential aggregation by default, got %d", cfg.AggregatorWorkers)
	}

	seasons := cfg.Seasons()
	if len(seasons) != 8 || seasons[0] != 2024 || seasons[7] != 2017 {
		t.Fatalf("unexpected season window: %v", seasons)
	}
}

func TestLoad_SeasonWindowValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SEASON_WINDOW_START", "2017")
	t.Setenv("SEASON_WINDOW_END", "2024")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when window start is before window end")
	}
}

func TestLoad_CacheBackendValidation(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "unknown backend", env: map[string]string{"CACHE_BACKEND": "s3"}, wantErr: true},
		{name: "redis without url", env: map[string]string{"CACHE_BACKEND": "redis", "REDIS_URL": ""}, wantErr: true},
		{name: "postgres without url", env: map[string]string{"CACHE_BACKEND": "postgres", "DB_URL": ""}, wantErr: true},
		{name: "redis with url", env: map[string]string{"CACHE_BACKEND": "REDIS", "REDIS_URL": "redis://localhost:6379/0"}},
		{name: "memory", env: map[string]string{"CACHE_BACKEND": "memory"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("UPTRACE_ENABLED", "false")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_TransfermarktValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("TRANSFERMARKT_REQUESTS_PER_MINUTE", "-1")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative rate limit")
	}
}

func TestSeasons_EmptyWhenWindowInverted(t *testing.T) {
	cfg := Config{SeasonWindowStart: 2017, SeasonWindowEnd: 2018}
	if got := cfg.Seasons(); len(got) != 0 {
		t.Fatalf("expected no seasons, got %v", got)
	}
}
