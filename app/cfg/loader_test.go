package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:             "./data/test.db",
		TopicsFile:         "./config/topics.yml",
		Port:               "3100",
		APIAccessKey:       "test-key",
		MaxRequestsPerDay:  50,
		FetchIntervalHours: 6,
		FetchDelay:         5,
		FetchTimeout:       30,
		UserAgent:          "Test Agent",
		Timezone:           "UTC",
		Debug:              true,
		Version:            "test-version",
	}

	if cfg.Port != "3100" {
		t.Errorf("Expected port '3100', got '%s'", cfg.Port)
	}
	if cfg.DBPath != "./data/test.db" {
		t.Errorf("Expected db path './data/test.db', got '%s'", cfg.DBPath)
	}
	if cfg.MaxRequestsPerDay != 50 {
		t.Errorf("Expected max requests per day 50, got %d", cfg.MaxRequestsPerDay)
	}
	if cfg.FetchIntervalHours != 6 {
		t.Errorf("Expected fetch interval 6 hours, got %d", cfg.FetchIntervalHours)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected UTC to be a valid timezone, got error: %v", err)
	}

	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}

func TestGetPanicsWhenNotLoaded(t *testing.T) {
	if globalCfg != nil {
		t.Skip("configuration already loaded by another test")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected Get to panic when configuration is not loaded")
		}
	}()

	Get()
}
