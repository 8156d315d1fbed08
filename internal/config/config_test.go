package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.ReportInterval != time.Hour {
		t.Fatalf("ReportInterval = %v", cfg.ReportInterval)
	}
	if cfg.ReportWindowDays != 7 || cfg.ReportConcurrency != 4 {
		t.Fatalf("unexpected report settings %+v", cfg)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://stats.example.com/api")
	t.Setenv("API_TIMEOUT_SECONDS", "3")
	t.Setenv("REPORT_WINDOW_DAYS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://stats.example.com/api" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Fatalf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.ReportWindowDays != 0 {
		t.Fatalf("ReportWindowDays = %d", cfg.ReportWindowDays)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"REPORT_INTERVAL":     "0",
		"API_TIMEOUT_SECONDS": "-1",
		"REPORT_CONCURRENCY":  "0",
		"REPORT_WINDOW_DAYS":  "-3",
	}
	for env, val := range cases {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", env, val)
			}
		})
	}
}
